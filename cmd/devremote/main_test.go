package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/fitkeeper/internal/auth"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--user", "alice", "--secret", "s3cret"})
	require.NoError(t, cmd.Execute())

	user, err := auth.GetUserIDFromToken(strings.TrimSpace(out.String()), []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
}

func TestTokenCommand_RequiresUser(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"token"})
	require.ErrorIs(t, cmd.Execute(), common.ErrValidation)
}
