package db

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Init("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func seedUser(t *testing.T, database *DB, username string) int {
	t.Helper()
	id, err := database.CreateUser(username, "not-a-real-hash")
	require.NoError(t, err)
	return id
}

func TestPostLifecycle(t *testing.T) {
	database := newTestDB(t)
	alice := seedUser(t, database, "alice")

	id, err := database.CreatePost("Hello", "first post", alice)
	require.NoError(t, err)

	post, err := database.GetPost(id)
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "first post", post.Content)
	assert.Equal(t, alice, post.AuthorID)
	assert.Equal(t, "alice", post.Author)
	assert.False(t, post.CreatedAt.IsZero())

	owner, err := database.GetPostOwner(id)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	require.NoError(t, database.UpdatePost(id, alice, "Hello again", "edited"))
	post, err = database.GetPost(id)
	require.NoError(t, err)
	assert.Equal(t, "edited", post.Content)

	require.NoError(t, database.DeletePost(id, alice))
	_, err = database.GetPost(id)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostNotFound(t *testing.T) {
	database := newTestDB(t)

	_, err := database.GetPost(42)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = database.GetPostOwner(42)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestConditionalMutationWrongAuthor(t *testing.T) {
	database := newTestDB(t)
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	id, err := database.CreatePost("A", "B", alice)
	require.NoError(t, err)

	// The author predicate in the statement must reject the mutation
	// even if a caller reached it with someone else's post id.
	assert.ErrorIs(t, database.UpdatePost(id, bob, "X", "Y"), ErrPostNotFound)
	assert.ErrorIs(t, database.DeletePost(id, bob), ErrPostNotFound)

	post, err := database.GetPost(id)
	require.NoError(t, err)
	assert.Equal(t, "A", post.Title)
	assert.Equal(t, "B", post.Content)
	assert.Equal(t, alice, post.AuthorID)
}

func TestListPostsPaging(t *testing.T) {
	database := newTestDB(t)
	alice := seedUser(t, database, "alice")

	for i := 1; i <= 12; i++ {
		_, err := database.CreatePost(fmt.Sprintf("Post %d", i), "content", alice)
		require.NoError(t, err)
	}

	total, err := database.CountPosts()
	require.NoError(t, err)
	assert.Equal(t, 12, total)

	// Newest first: page 1 holds posts 12..8.
	page1, err := database.ListPosts(0, 5)
	require.NoError(t, err)
	require.Len(t, page1, 5)
	assert.Equal(t, "Post 12", page1[0].Title)
	assert.Equal(t, "Post 8", page1[4].Title)

	page3, err := database.ListPosts(10, 5)
	require.NoError(t, err)
	require.Len(t, page3, 2)
	assert.Equal(t, "Post 2", page3[0].Title)
	assert.Equal(t, "Post 1", page3[1].Title)

	page4, err := database.ListPosts(15, 5)
	require.NoError(t, err)
	assert.Empty(t, page4)

	all, err := database.ListAllPosts()
	require.NoError(t, err)
	assert.Len(t, all, 12)
}

func TestSearchPosts(t *testing.T) {
	database := newTestDB(t)
	alice := seedUser(t, database, "alice")

	_, err := database.CreatePost("Go tips", "x", alice)
	require.NoError(t, err)
	_, err = database.CreatePost("More GO Tricks", "x", alice)
	require.NoError(t, err)
	_, err = database.CreatePost("Unrelated", "x", alice)
	require.NoError(t, err)

	count, err := database.SearchPostsCount("go")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	posts, err := database.SearchPosts("go", 0, 5)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	// No match is an empty result, never an error.
	count, err = database.SearchPostsCount("zzz")
	require.NoError(t, err)
	assert.Zero(t, count)

	posts, err = database.SearchPosts("zzz", 0, 5)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestSearchEscapesWildcards(t *testing.T) {
	database := newTestDB(t)
	alice := seedUser(t, database, "alice")

	_, err := database.CreatePost("100% Go", "x", alice)
	require.NoError(t, err)
	_, err = database.CreatePost("under_score", "x", alice)
	require.NoError(t, err)
	_, err = database.CreatePost("Plain", "x", alice)
	require.NoError(t, err)

	// "%" and "_" are literals in the query, not LIKE wildcards.
	count, err := database.SearchPostsCount("%")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	posts, err := database.SearchPosts("%", 0, 5)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "100% Go", posts[0].Title)

	count, err = database.SearchPostsCount("_")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	posts, err = database.SearchPosts("_", 0, 5)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "under_score", posts[0].Title)

	count, err = database.SearchPostsCount("100%")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
