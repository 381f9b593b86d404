package insert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestInserter(paste bool) (*Inserter, *[]string, *int) {
	copied := []string{}
	pasted := 0

	i := New(nil, paste)
	i.copyText = func(text string) error {
		copied = append(copied, text)
		return nil
	}
	i.readText = func() (string, error) { return "previous", nil }
	i.sendKeys = func() error {
		pasted++
		return nil
	}
	i.sleep = func(time.Duration) {}
	return i, &copied, &pasted
}

func TestInsertTextPastesAndRestores(t *testing.T) {
	i, copied, pasted := newTestInserter(true)

	require.NoError(t, i.InsertText(context.Background(), "hello world"))
	require.Equal(t, []string{"hello world", "previous"}, *copied)
	require.Equal(t, 1, *pasted)
}

func TestInsertTextClipboardOnly(t *testing.T) {
	i, copied, pasted := newTestInserter(false)

	require.NoError(t, i.InsertText(context.Background(), "hello world"))
	require.Equal(t, []string{"hello world"}, *copied)
	require.Equal(t, 0, *pasted)
}

func TestInsertTextCopyFailure(t *testing.T) {
	i, _, pasted := newTestInserter(true)
	i.copyText = func(string) error { return errors.New("no clipboard") }

	err := i.InsertText(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "copy text to clipboard")
	require.Equal(t, 0, *pasted)
}

func TestInsertTextPasteFailure(t *testing.T) {
	i, copied, _ := newTestInserter(true)
	i.sendKeys = func() error { return errors.New("no focus") }

	err := i.InsertText(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no focus")
	// The text stays on the clipboard; the old contents are not restored.
	require.Equal(t, []string{"hello"}, *copied)
}

func TestInsertTextSkipsRestoreWhenReadFails(t *testing.T) {
	i, copied, pasted := newTestInserter(true)
	i.readText = func() (string, error) { return "", errors.New("clipboard empty") }

	require.NoError(t, i.InsertText(context.Background(), "hello"))
	require.Equal(t, []string{"hello"}, *copied)
	require.Equal(t, 1, *pasted)
}
