package resolve

import (
	"context"
	"testing"

	"github.com/LeeDigitalWorks/b2gate/pkg/b2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageFunc adapts a function to the PageLister interface.
type pageFunc func(ctx context.Context, bucketID string, cur b2.Cursor) (*b2.VersionPage, error)

func (f pageFunc) ListPage(ctx context.Context, bucketID string, cur b2.Cursor) (*b2.VersionPage, error) {
	return f(ctx, bucketID, cur)
}

// scriptedLister replays a fixed page sequence and records every call.
type scriptedLister struct {
	pages   []*b2.VersionPage
	cursors []b2.Cursor
}

func (s *scriptedLister) ListPage(ctx context.Context, bucketID string, cur b2.Cursor) (*b2.VersionPage, error) {
	s.cursors = append(s.cursors, cur)
	if len(s.cursors) > len(s.pages) {
		return nil, &b2.UpstreamError{Op: "b2_list_file_versions", StatusCode: 400, Message: "unexpected extra page request"}
	}
	return s.pages[len(s.cursors)-1], nil
}

func TestEnumerateSinglePage(t *testing.T) {
	lister := &scriptedLister{pages: []*b2.VersionPage{
		{Files: []b2.FileVersion{v("f1", "aaa"), v("f2", "bbb")}},
	}}

	got, err := Enumerate(context.Background(), lister, "bucket-1", "report.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2"}, ids(got))
	require.Len(t, lister.cursors, 1)
	assert.Equal(t, b2.Cursor{StartName: "report.pdf"}, lister.cursors[0])
}

func TestEnumerateMultiPageStopsAtSibling(t *testing.T) {
	// Two pages of report.pdf versions, then NextName moves past the path
	// into a sibling. No third call may be issued.
	lister := &scriptedLister{pages: []*b2.VersionPage{
		{Files: []b2.FileVersion{v("f1", "aaa")}, NextName: "report.pdf", NextID: "f2"},
		{Files: []b2.FileVersion{v("f2", "bbb")}, NextName: "report2.pdf", NextID: "f9"},
	}}

	got, err := Enumerate(context.Background(), lister, "bucket-1", "report.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2"}, ids(got))
	require.Len(t, lister.cursors, 2, "no page request past the terminal page")
	assert.Equal(t, b2.Cursor{StartName: "report.pdf", StartID: "f2"}, lister.cursors[1])
}

func TestEnumerateFiltersPrefixMatchesAndMarkers(t *testing.T) {
	hide := b2.FileVersion{FileID: "h1", FileName: "report.pdf", Action: "hide"}
	sibling := b2.FileVersion{FileID: "s1", FileName: "report.pdf.bak", ContentSHA1: "zzz", Action: b2.ActionUpload}

	lister := &scriptedLister{pages: []*b2.VersionPage{
		{Files: []b2.FileVersion{v("f1", "aaa"), hide, sibling}},
	}}

	got, err := Enumerate(context.Background(), lister, "bucket-1", "report.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, ids(got))
}

func TestEnumerateEmpty(t *testing.T) {
	lister := &scriptedLister{pages: []*b2.VersionPage{{}}}

	got, err := Enumerate(context.Background(), lister, "bucket-1", "missing.pdf")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnumeratePageErrorDiscardsPartialResults(t *testing.T) {
	calls := 0
	lister := pageFunc(func(ctx context.Context, bucketID string, cur b2.Cursor) (*b2.VersionPage, error) {
		calls++
		if calls == 1 {
			return &b2.VersionPage{
				Files:    []b2.FileVersion{v("f1", "aaa")},
				NextName: "report.pdf",
				NextID:   "f2",
			}, nil
		}
		return nil, &b2.UpstreamError{Op: "b2_list_file_versions", StatusCode: 503}
	})

	got, err := Enumerate(context.Background(), lister, "bucket-1", "report.pdf")

	require.Error(t, err)
	var upErr *b2.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Nil(t, got, "partial results must be discarded")
}
