package fileproc

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachFileCollectsResults(t *testing.T) {
	files := []string{"a.py", "b.py", "c.py"}

	results := ForEachFile(files, func(path string) (string, error) {
		return strings.ToUpper(path), nil
	})

	sort.Strings(results)
	assert.Equal(t, []string{"A.PY", "B.PY", "C.PY"}, results)
}

func TestForEachFileEmptyInput(t *testing.T) {
	results := ForEachFile(nil, func(path string) (int, error) { return 1, nil })
	assert.Nil(t, results)
}

func TestForEachFileSkipsFailures(t *testing.T) {
	files := []string{"ok1", "bad", "ok2"}

	results := ForEachFile(files, func(path string) (string, error) {
		if path == "bad" {
			return "", errors.New("boom")
		}
		return path, nil
	})

	sort.Strings(results)
	assert.Equal(t, []string{"ok1", "ok2"}, results)
}

func TestForEachFileCollectErrors(t *testing.T) {
	files := []string{"ok", "bad1", "bad2"}

	results, errs := ForEachFileCollectErrors(files, func(path string) (string, error) {
		if strings.HasPrefix(path, "bad") {
			return "", errors.New("boom")
		}
		return path, nil
	})

	assert.Equal(t, []string{"ok"}, results)
	require.NotNil(t, errs)
	assert.Len(t, errs.Errors, 2)
	assert.True(t, errs.HasErrors())
}

func TestForEachFileCollectErrorsNoErrors(t *testing.T) {
	results, errs := ForEachFileCollectErrors([]string{"a", "b"}, func(path string) (string, error) {
		return path, nil
	})

	assert.Len(t, results, 2)
	assert.Nil(t, errs)
}

func TestForEachFileWithProgress(t *testing.T) {
	var ticks atomic.Int32

	ForEachFileWithProgress([]string{"a", "b", "c"}, func(path string) (int, error) {
		return 0, nil
	}, func() { ticks.Add(1) })

	assert.Equal(t, int32(3), ticks.Load())
}

func TestForEachFileWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []string{"a", "b", "c", "d"}
	results, errs := ForEachFileWithContext(ctx, 1, files, func(path string) (string, error) {
		return path, nil
	})

	// Everything submitted after cancellation is recorded as a context error.
	assert.Empty(t, results)
	require.NotNil(t, errs)
	for _, pe := range errs.Errors {
		assert.ErrorIs(t, pe.Err, context.Canceled)
	}
}

func TestForEachFileWithContextFileErrorsDoNotAbort(t *testing.T) {
	files := []string{"a", "bad", "c"}

	results, errs := ForEachFileWithContext(context.Background(), 2, files, func(path string) (string, error) {
		if path == "bad" {
			return "", errors.New("boom")
		}
		return path, nil
	})

	sort.Strings(results)
	assert.Equal(t, []string{"a", "c"}, results)
	require.NotNil(t, errs)
	assert.Len(t, errs.Errors, 1)
	assert.Equal(t, "bad", errs.Errors[0].Path)
}

func TestProcessingErrorsError(t *testing.T) {
	errs := &ProcessingErrors{}
	assert.Equal(t, "no errors", errs.Error())

	errs.Add("f.py", errors.New("boom"))
	assert.Contains(t, errs.Error(), "f.py")

	errs.Add("g.py", errors.New("bang"))
	assert.Contains(t, errs.Error(), "2 files failed")
}
