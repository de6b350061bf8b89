package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyshyn/workvol/internal/model"
)

func TestFetchWithSpinner_DrawsWhileFetching(t *testing.T) {
	var buf bytes.Buffer
	want := []model.WorkItem{{ID: "w1", Name: "Footing"}}

	got, err := fetchWithSpinner(context.Background(), &buf, func(context.Context) ([]model.WorkItem, error) {
		time.Sleep(250 * time.Millisecond)
		return want, nil
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NotEmpty(t, buf.String())
}

func TestFetchWithSpinner_PropagatesError(t *testing.T) {
	var buf bytes.Buffer
	fetchErr := errors.New("backend down")

	got, err := fetchWithSpinner(context.Background(), &buf, func(context.Context) ([]model.WorkItem, error) {
		return nil, fetchErr
	})

	require.ErrorIs(t, err, fetchErr)
	assert.Nil(t, got)
}
