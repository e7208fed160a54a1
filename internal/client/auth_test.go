package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"studycompanion/internal/models"
)

func TestLoginPaths(t *testing.T) {
	c, seen := newTestServer(t, http.StatusOK, `{"success":true,"message":"ok","user":{"email":"kim@school.edu","subject":"Biology"}}`)
	ctx := context.Background()

	out, err := c.Login(ctx, models.UserTeacher, "kim@school.edu", "pw")
	require.NoError(t, err)
	require.Equal(t, &models.User{Email: "kim@school.edu", Subject: "Biology"}, out.User)

	_, err = c.Login(ctx, models.UserStudent, "ana@school.edu", "pw")
	require.NoError(t, err)

	require.Equal(t, "/auth/teacher/login", seen.all()[0].path)
	require.JSONEq(t, `{"email":"kim@school.edu","password":"pw"}`, string(seen.all()[0].body))
	require.Equal(t, "/auth/student/login", seen.all()[1].path)
}

func TestRegisterSubjectOnlyForTeachers(t *testing.T) {
	c, seen := newTestServer(t, http.StatusOK, `{"success":true,"message":"created"}`)
	ctx := context.Background()
	_, err := c.Register(ctx, models.UserStudent, "ana@school.edu", "pw", "Biology")
	require.NoError(t, err)
	_, err = c.Register(ctx, models.UserTeacher, "kim@school.edu", "pw", "Biology")
	require.NoError(t, err)

	require.Equal(t, "/auth/student/register", seen.all()[0].path)
	require.JSONEq(t, `{"email":"ana@school.edu","password":"pw"}`, string(seen.all()[0].body))
	require.Equal(t, "/auth/teacher/register", seen.all()[1].path)
	require.JSONEq(t, `{"email":"kim@school.edu","password":"pw","subject":"Biology"}`, string(seen.all()[1].body))
}

func TestAuthErrorUsesMessageField(t *testing.T) {
	c, _ := newTestServer(t, http.StatusUnauthorized, `{"message":"Invalid email or password"}`)
	_, err := c.Login(context.Background(), models.UserStudent, "a", "b")
	require.EqualError(t, err, "Invalid email or password")
	require.Equal(t, KindAuth, Classify(err))

	c, _ = newTestServer(t, http.StatusUnauthorized, `{}`)
	_, err = c.Login(context.Background(), models.UserStudent, "a", "b")
	require.EqualError(t, err, MsgRequestFailed)
}
