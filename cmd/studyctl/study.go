package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"studycompanion/internal/client"
	"studycompanion/internal/paper"
	"studycompanion/internal/quizboard"
	"studycompanion/internal/session"
	"studycompanion/internal/util"
)

func (a *app) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF for questions, summaries and quizzes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			path := args[0]
			if !util.IsPDFName(path) {
				return util.ErrNotPDF
			}
			info, err := util.CheckPDF(path)
			switch {
			case err != nil:
				a.log.Warn().Err(err).Str("path", path).Msg("pdf preflight failed, uploading anyway")
			case !info.HasText:
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s has %d pages but no extractable text\n", filepath.Base(path), info.Pages)
			}

			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			resp, err := a.api.UploadPDFFile(ctx, path, u.Role)
			if err != nil {
				return err
			}
			if err := a.store.SetDocument(cmd.Context(), session.Document{
				SessionID:  resp.SessionID,
				Filename:   resp.Filename,
				UserType:   u.Role,
				UploadedAt: time.Now().UTC(),
			}); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if resp.Message != "" {
				fmt.Fprintln(out, resp.Message)
			}
			fmt.Fprintf(out, "Session: %s\n", resp.SessionID)
			return nil
		},
	}
}

func (a *app) askCmd() *cobra.Command {
	var sessionFlag string
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the uploaded document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			id, err := a.sessionID(cmd.Context(), sessionFlag)
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			resp, err := a.api.AskQuestion(ctx, id, strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Answer)
			for i, src := range resp.Sources {
				fmt.Fprintf(out, "\n[%d] %s\n", i+1, util.DisplaySnippet(src, 160))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionFlag, "session", "", "document session id (defaults to the last upload)")
	return cmd
}

func (a *app) summaryCmd() *cobra.Command {
	var (
		sessionFlag string
		maxLength   int
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the uploaded document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			id, err := a.sessionID(cmd.Context(), sessionFlag)
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			resp, err := a.api.GetSummary(ctx, id, maxLength)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionFlag, "session", "", "document session id (defaults to the last upload)")
	cmd.Flags().IntVar(&maxLength, "max-length", 500, "maximum summary length in words")
	return cmd
}

func (a *app) quizCmd() *cobra.Command {
	var (
		sessionFlag string
		num         int
		difficulty  string
		asJSON      bool
		savePath    string
	)
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate a practice quiz from the uploaded document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			id, err := a.sessionID(cmd.Context(), sessionFlag)
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			resp, err := a.api.GenerateQuiz(ctx, id, num, difficulty)
			if err != nil {
				return err
			}
			if savePath != "" {
				if err := util.WriteJSONAtomic(savePath, resp.Quiz); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp.Quiz)
			}
			for i, q := range resp.Quiz {
				fmt.Fprintf(out, "%d. %s\n", i+1, q.Question)
				for _, o := range q.Options {
					fmt.Fprintf(out, "   %s\n", o)
				}
				fmt.Fprintf(out, "   Answer: %s\n\n", q.CorrectAnswer)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionFlag, "session", "", "document session id (defaults to the last upload)")
	cmd.Flags().IntVar(&num, "num", 5, "number of questions")
	cmd.Flags().StringVar(&difficulty, "difficulty", "medium", "easy, medium or hard")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the quiz as JSON")
	cmd.Flags().StringVar(&savePath, "save", "", "also write the quiz as JSON to this file")
	return cmd
}

func (a *app) paperCmd() *cobra.Command {
	var (
		sessionFlag string
		opts        client.PaperOptions
		xlsxPath    string
		showBoard   bool
	)
	cmd := &cobra.Command{
		Use:   "paper",
		Short: "Generate a question paper from uploaded topic material",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.sessionID(cmd.Context(), sessionFlag)
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			p, err := a.api.GenerateQuestionPaper(ctx, id, opts)
			if err != nil {
				return err
			}
			if err := paper.Render(cmd.OutOrStdout(), p); err != nil {
				return err
			}
			if xlsxPath != "" {
				if err := paper.ExportXLSX(p, xlsxPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nSaved %s\n", xlsxPath)
			}
			if showBoard {
				b := quizboard.NewDemoBoard()
				b.Create(quizboard.FromPaper(p, u.Subject))
				fmt.Fprintln(cmd.OutOrStdout())
				return b.Render(cmd.OutOrStdout())
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&sessionFlag, "session", "", "document session id (defaults to the last upload)")
	f.StringVar(&opts.Topic, "topic", "", "paper topic")
	f.IntVar(&opts.NumQuestions, "num", client.DefaultNumQuestions, "number of questions")
	f.StringVar(&opts.Difficulty, "difficulty", client.DefaultDifficulty, "easy, medium or hard")
	f.BoolVar(&opts.IncludeAnswers, "answers", false, "include an answer key")
	f.StringVar(&opts.TestMode, "mode", client.DefaultTestMode, "mcq, theory or hybrid")
	f.StringSliceVar(&opts.QuestionTypes, "types", nil, "question types: mcq, short_answer, long_answer")
	f.StringVar(&xlsxPath, "xlsx", "", "also write the paper to this .xlsx file")
	f.BoolVar(&showBoard, "board", false, "show the quiz board with this paper added as a draft")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API health endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			body, err := a.api.HealthCheck(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(body)
		},
	}
}
