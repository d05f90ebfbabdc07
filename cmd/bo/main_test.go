package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubExecute(t *testing.T, exec func(context.Context, []string) error, exit func(error) int) {
	t.Helper()
	origExec, origMap := executeCmd, mapExitCode
	t.Cleanup(func() {
		executeCmd = origExec
		mapExitCode = origMap
	})
	executeCmd = exec
	if exit != nil {
		mapExitCode = exit
	}
}

func TestRunSuccess(t *testing.T) {
	var gotArgs []string
	stubExecute(t, func(_ context.Context, args []string) error {
		gotArgs = append([]string(nil), args...)
		return nil
	}, func(error) int {
		t.Fatal("mapExitCode should not be called on success")
		return 99
	})

	assert.Equal(t, 0, run([]string{"version", "--output", "json"}))
	assert.Equal(t, []string{"version", "--output", "json"}, gotArgs)
}

func TestRunMapsErrors(t *testing.T) {
	boom := errors.New("boom")
	var mapped error
	stubExecute(t, func(context.Context, []string) error { return boom }, func(err error) int {
		mapped = err
		return 7
	})

	assert.Equal(t, 7, run(nil))
	assert.ErrorIs(t, mapped, boom)
}

func TestRunPassesCancelableContext(t *testing.T) {
	stubExecute(t, func(ctx context.Context, _ []string) error {
		assert.NotNil(t, ctx.Done())
		return nil
	}, nil)

	assert.Equal(t, 0, run(nil))
}
