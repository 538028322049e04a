package ingest

import (
	"log/slog"
	"os"
	"path/filepath"
	"sentiment-lab/domain"
	customerrors "sentiment-lab/errors"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	tests := []struct {
		description string
		data        string
		opts        Options
		texts       []string
		labels      []int
		skipped     int
	}{
		{
			description: "Should read one comment per line",
			data:        "so good\nso bad\n",
			opts:        Options{},
			texts:       []string{"so good", "so bad"},
		},
		{
			description: "Should read the text and label columns",
			data:        "4,1467810369,so good\n0,1467810672,\"so bad, really\"\n",
			opts:        Options{TextColumn: 2, LabelColumn: lo.ToPtr(0)},
			texts:       []string{"so good", "so bad, really"},
			labels:      []int{4, 0},
		},
		{
			description: "Should skip rows without the text column or a numeric label",
			data:        "4,1,fine\n0\nx,2,broken label\n0,3,meh\n",
			opts:        Options{TextColumn: 2, LabelColumn: lo.ToPtr(0)},
			texts:       []string{"fine", "meh"},
			labels:      []int{4, 0},
			skipped:     2,
		},
		{
			description: "Should skip the header",
			data:        "label;text\n1;love it\n",
			opts:        Options{TextColumn: 1, LabelColumn: lo.ToPtr(0), Comma: ';', HasHeader: true},
			texts:       []string{"love it"},
			labels:      []int{1},
		},
		{
			description: "Should stop at the limit",
			data:        "a\nb\nc\n",
			opts:        Options{Limit: 2},
			texts:       []string{"a", "b"},
		},
		{
			description: "Should drop the byte order mark",
			data:        "\xef\xbb\xbfhello\n",
			opts:        Options{},
			texts:       []string{"hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			result, err := Parse([]byte(tt.data), tt.opts, log)
			require.NoError(t, err)
			require.Equal(t, tt.texts, lo.Map(result.Comments, func(c domain.Comment, _ int) string { return c.Text }))
			require.Equal(t, tt.skipped, result.Skipped)
			if tt.labels != nil {
				require.Equal(t, tt.labels, lo.Map(result.Comments, func(c domain.Comment, _ int) int { return *c.Label }))
			} else {
				for _, c := range result.Comments {
					require.Nil(t, c.Label)
				}
			}
		})
	}
}

func TestParse_Keeps_Line_Numbers(t *testing.T) {
	result, err := Parse([]byte("first\n\nthird\n"), Options{}, slog.Default())
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, lo.Map(result.Comments, func(c domain.Comment, _ int) int { return c.Row }))
}

func TestParse_Latin1_Fallback(t *testing.T) {
	req := require.New(t)

	result, err := Parse([]byte("caf\xe9 cr\xe8me\n"), Options{}, slog.Default())
	req.NoError(err)
	req.Equal(EncodingLatin1, result.Encoding)
	req.Equal("café crème", result.Comments[0].Text)

	result, err = Parse([]byte("café crème\n"), Options{}, slog.Default())
	req.NoError(err)
	req.Equal(EncodingUTF8, result.Encoding)
	req.Equal("café crème", result.Comments[0].Text)
}

func TestParse_Rejects_Negative_Columns(t *testing.T) {
	_, err := Parse([]byte("a\n"), Options{TextColumn: -1}, slog.Default())
	require.ErrorIs(t, err, customerrors.ErrInvalidColumn)
}

func TestReadComments(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "comments.csv")
	req.NoError(os.WriteFile(csvPath, []byte("0,so bad\n4,so good\n"), 0o600))
	result, err := ReadComments(csvPath, Options{TextColumn: 1, LabelColumn: lo.ToPtr(0)}, slog.Default())
	req.NoError(err)
	req.Len(result.Comments, 2)

	pngPath := filepath.Join(dir, "image.csv")
	req.NoError(os.WriteFile(pngPath, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o600))
	_, err = ReadComments(pngPath, Options{}, slog.Default())
	req.ErrorIs(err, customerrors.ErrUnsupportedInput)
}
