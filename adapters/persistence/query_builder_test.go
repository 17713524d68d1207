package persistence

import (
	"testing"

	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "%hello%"},
		{"50%", `%50\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
		{"o'reilly", "%o'reilly%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsPattern(tt.in), tt.in)
	}
}

func TestBuildList_NoSearch(t *testing.T) {
	st, err := buildList(blogList, listing.Query{Sort: listing.SortNewest, Page: 3, PageSize: 10})
	require.NoError(t, err)

	assert.Contains(t, st.SQL, "FROM blogs AS i LEFT JOIN users AS u ON u.user_id = i.author_id")
	assert.Contains(t, st.SQL, "ORDER BY i.created_at DESC, i.blog_id DESC")
	assert.Contains(t, st.SQL, "LIMIT 10 OFFSET 20")
	assert.NotContains(t, st.SQL, "WHERE")
	assert.Empty(t, st.Args)

	assert.Equal(t, "SELECT COUNT(i.blog_id) FROM blogs AS i", st.CountSQL)
	assert.Empty(t, st.CountArgs)
}

func TestBuildList_HugePageOffsetFitsBigint(t *testing.T) {
	q := listing.ParseQuery("9223372036854775807", "20", "", "").Clamped(listing.MaxPageSize)
	st, err := buildList(blogList, q)
	require.NoError(t, err)

	assert.Contains(t, st.SQL, "LIMIT 20 OFFSET 42949672920")
}

func TestBuildList_SearchIsBound(t *testing.T) {
	term := "x' OR 1=1; DROP TABLE blogs; --"
	st, err := buildList(blogList, listing.Query{Search: term, Page: 1, PageSize: 20})
	require.NoError(t, err)

	assert.NotContains(t, st.SQL, "DROP TABLE")
	assert.NotContains(t, st.CountSQL, "DROP TABLE")
	assert.Contains(t, st.SQL, "WHERE (i.title ILIKE $1 OR i.content ILIKE $2)")
	assert.Contains(t, st.CountSQL, "WHERE (i.title ILIKE $1 OR i.content ILIKE $2)")

	want := []any{"%" + term + "%", "%" + term + "%"}
	assert.Equal(t, want, st.Args)
	assert.Equal(t, st.Args, st.CountArgs)
}

func TestBuildList_SortWhitelist(t *testing.T) {
	tests := []struct {
		mode listing.SortMode
		want string
	}{
		{listing.SortNewest, "ORDER BY i.created_at DESC, i.job_info_id DESC"},
		{listing.SortNameDesc, "ORDER BY i.title DESC, i.job_info_id DESC"},
		{listing.SortDateAsc, "ORDER BY i.created_at ASC, i.job_info_id ASC"},
		{listing.SortMode("title; DELETE FROM jobs_infos"), "ORDER BY i.created_at DESC, i.job_info_id DESC"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			st, err := buildList(jobPostingList, listing.Query{Sort: tt.mode, Page: 1, PageSize: 5})
			require.NoError(t, err)
			assert.Contains(t, st.SQL, tt.want)
			assert.NotContains(t, st.SQL, "DELETE")
		})
	}
}

func TestBuildList_ApplicationsSearchNameAndMessage(t *testing.T) {
	st, err := buildList(jobApplicationList, listing.Query{Search: "go", Sort: listing.SortNameDesc, Page: 2, PageSize: 2})
	require.NoError(t, err)

	assert.Contains(t, st.SQL, "(i.name ILIKE $1 OR i.message ILIKE $2)")
	assert.Contains(t, st.SQL, "ORDER BY i.name DESC")
	assert.Contains(t, st.SQL, "LIMIT 2 OFFSET 2")
	assert.NotContains(t, st.SQL, "resume_data")
	assert.Equal(t, "SELECT COUNT(i.job_applications_id) FROM job_applications AS i WHERE (i.name ILIKE $1 OR i.message ILIKE $2)", st.CountSQL)
}

func TestBuildList_BlankSearchIgnored(t *testing.T) {
	st, err := buildList(blogList, listing.Query{Search: "   ", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.NotContains(t, st.SQL, "WHERE")
	assert.Empty(t, st.Args)
}
