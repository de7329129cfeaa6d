package converter_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvity/fixnss/pkg/converter"
)

func TestTransform_Table(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		lines      int
		insertions int
	}{
		{
			name:       "single flag",
			input:      "Header\nRED\nMiddle\nFooter\n",
			want:       "Header\nRED\nMiddle\nOff\nFooter\n",
			lines:      4,
			insertions: 1,
		},
		{
			name:       "back to back flags share one insertion",
			input:      "RED\nRED\nx\n",
			want:       "RED\nRED\nOff\nx\n",
			lines:      3,
			insertions: 1,
		},
		{
			name:       "consecutive flags alternate",
			input:      "RED\nCBQ\nFQ\na\nb\n",
			want:       "RED\nCBQ\nOff\nFQ\na\nOff\nb\n",
			lines:      5,
			insertions: 2,
		},
		{
			name:  "flag on last line",
			input: "a\nRED\n",
			want:  "a\nRED\n",
			lines: 2,
		},
		{
			name:       "unterminated last line fires",
			input:      "RED\nx",
			want:       "RED\nx\nOff\n",
			lines:      2,
			insertions: 1,
		},
		{
			name:  "no flags is a byte copy",
			input: "node 1\nlink 1 2\n\n  trailing  \nno newline",
			want:  "node 1\nlink 1 2\n\n  trailing  \nno newline",
			lines: 5,
		},
		{
			name:       "crlf terminators are reused",
			input:      "DropTail\r\nx\r\ny\r\n",
			want:       "DropTail\r\nx\r\nOff\r\ny\r\n",
			lines:      3,
			insertions: 1,
		},
		{
			name:  "leading whitespace does not match",
			input: " RED\nx\n",
			want:  " RED\nx\n",
			lines: 2,
		},
		{
			name:  "trailing whitespace does not match",
			input: "RED \nx\n",
			want:  "RED \nx\n",
			lines: 2,
		},
		{
			name:  "matching is case sensitive",
			input: "red\nx\n",
			want:  "red\nx\n",
			lines: 2,
		},
		{
			name:       "utf-8 bom on first line",
			input:      "\xef\xbb\xbfSFQ\nx\n",
			want:       "\xef\xbb\xbfSFQ\nx\nOff\n",
			lines:      2,
			insertions: 1,
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			res, err := converter.Transform(strings.NewReader(tc.input), &out)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.String())
			assert.Equal(t, tc.lines, res.Lines)
			assert.Equal(t, tc.insertions, res.Insertions)
		})
	}
}

func TestTransform_EveryQueueFlag(t *testing.T) {
	for _, flag := range converter.QueueFlags() {
		t.Run(flag, func(t *testing.T) {
			out, res, err := converter.TransformBytes([]byte(flag + "\nparams\nrest\n"))
			require.NoError(t, err)
			assert.Equal(t, flag+"\nparams\nOff\nrest\n", string(out))
			assert.Equal(t, 1, res.Insertions)
		})
	}
}

func TestTransform_Dangling(t *testing.T) {
	_, res, err := converter.TransformBytes([]byte("a\nRED\n"))
	require.NoError(t, err)
	assert.True(t, res.Dangling)
	assert.Zero(t, res.Insertions)

	_, res, err = converter.TransformBytes([]byte("Header\nRED\nMiddle\nFooter\n"))
	require.NoError(t, err)
	assert.False(t, res.Dangling)
}

func TestTransform_NotIdempotent(t *testing.T) {
	first, _, err := converter.TransformBytes([]byte("Header\nRED\nMiddle\nFooter\n"))
	require.NoError(t, err)
	second, res, err := converter.TransformBytes(first)
	require.NoError(t, err)

	assert.Equal(t, "Header\nRED\nMiddle\nOff\nOff\nFooter\n", string(second))
	assert.Equal(t, 1, res.Insertions)
}

func TestTransform_ReadError(t *testing.T) {
	readErr := errors.New("disk gone")
	_, err := converter.Transform(iotest.ErrReader(readErr), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, converter.ErrReadFailed)
	assert.ErrorIs(t, err, readErr)
}

type failingWriter struct{ err error }

func (w failingWriter) Write(p []byte) (int, error) { return 0, w.err }

func TestTransform_WriteError(t *testing.T) {
	writeErr := errors.New("no space left")
	_, err := converter.Transform(strings.NewReader("RED\nx\n"), failingWriter{err: writeErr})
	require.Error(t, err)
	assert.ErrorIs(t, err, converter.ErrWriteFailed)
	assert.ErrorIs(t, err, writeErr)
}
