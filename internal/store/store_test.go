package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"goblog/internal/model"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "goblog-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, q *Queries, email, name string) model.User {
	t.Helper()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		PasswordHash: "hash",
		Name:         name,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, q *Queries, authorID int64, title string) model.Post {
	t.Helper()
	post, err := q.CreatePost(context.Background(), CreatePostParams{
		AuthorID:  authorID,
		Title:     title,
		Subtitle:  "A subtitle",
		Date:      time.Now().Format(model.DateFormat),
		Body:      "Some body text.",
		ImgURL:    "https://example.com/img.jpg",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return post
}

func TestCreateUser(t *testing.T) {
	db := testDB(t)
	q := New(db)

	user := createTestUser(t, q, "test@example.com", "Test User")

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.Name != "Test User" {
		t.Errorf("Name = %q, want %q", user.Name, "Test User")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testDB(t)
	q := New(db)

	createTestUser(t, q, "dup@example.com", "First")

	_, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        "dup@example.com",
		PasswordHash: "hash",
		Name:         "Second",
		CreatedAt:    time.Now(),
	})
	if err == nil {
		t.Fatal("duplicate email should violate the UNIQUE constraint")
	}

	count, err := q.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("CountUsers = %d, want 1", count)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	created := createTestUser(t, q, "find@example.com", "Find Me")

	found, err := q.GetUserByEmail(ctx, "find@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}

	_, err = q.GetUserByEmail(ctx, "missing@example.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing email should return sql.ErrNoRows, got %v", err)
	}
}

func TestCreateAndGetPost(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	author := createTestUser(t, q, "author@example.com", "Author")
	post := createTestPost(t, q, author.ID, "First Post")

	got, err := q.GetPostByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if got.Title != "First Post" {
		t.Errorf("Title = %q, want %q", got.Title, "First Post")
	}
	if got.AuthorID != author.ID {
		t.Errorf("AuthorID = %d, want %d", got.AuthorID, author.ID)
	}

	_, err = q.GetPostByID(ctx, 9999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing post should return sql.ErrNoRows, got %v", err)
	}
}

func TestCreatePostDuplicateTitle(t *testing.T) {
	db := testDB(t)
	q := New(db)

	author := createTestUser(t, q, "author@example.com", "Author")
	createTestPost(t, q, author.ID, "Unique Title")

	_, err := q.CreatePost(context.Background(), CreatePostParams{
		AuthorID:  author.ID,
		Title:     "Unique Title",
		Date:      time.Now().Format(model.DateFormat),
		Body:      "body",
		CreatedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("duplicate title should violate the UNIQUE constraint")
	}
}

func TestListPostsStorageOrder(t *testing.T) {
	db := testDB(t)
	q := New(db)

	author := createTestUser(t, q, "author@example.com", "Author")
	first := createTestPost(t, q, author.ID, "Post A")
	second := createTestPost(t, q, author.ID, "Post B")

	posts, err := q.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].ID != first.ID || posts[1].ID != second.ID {
		t.Error("posts should be returned in storage order")
	}
}

func TestUpdatePostPreservesDateAndAuthor(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	author := createTestUser(t, q, "author@example.com", "Author")
	post := createTestPost(t, q, author.ID, "Before Edit")

	err := q.UpdatePost(ctx, UpdatePostParams{
		ID:       post.ID,
		Title:    "After Edit",
		Subtitle: "New subtitle",
		Body:     "New body",
		ImgURL:   "https://example.com/new.jpg",
	})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}

	got, err := q.GetPostByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if got.Title != "After Edit" || got.Subtitle != "New subtitle" || got.Body != "New body" {
		t.Error("editable fields should be overwritten")
	}
	if got.Date != post.Date {
		t.Errorf("Date changed on edit: %q -> %q", post.Date, got.Date)
	}
	if got.AuthorID != post.AuthorID {
		t.Errorf("AuthorID changed on edit: %d -> %d", post.AuthorID, got.AuthorID)
	}
}

func TestDeletePostCascadesComments(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	author := createTestUser(t, q, "author@example.com", "Author")
	commenter := createTestUser(t, q, "reader@example.com", "Reader")
	post := createTestPost(t, q, author.ID, "Commented Post")

	_, err := q.CreateComment(ctx, CreateCommentParams{
		AuthorID:  commenter.ID,
		PostID:    post.ID,
		Text:      "nice post",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if err := q.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	count, err := q.CountCommentsForPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("CountCommentsForPost: %v", err)
	}
	if count != 0 {
		t.Errorf("comments should cascade on post delete, %d remain", count)
	}
}

func TestGetCommentsForPostResolvesAuthor(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	author := createTestUser(t, q, "author@example.com", "Author")
	commenter := createTestUser(t, q, "reader@example.com", "Reader")
	post := createTestPost(t, q, author.ID, "Post")
	other := createTestPost(t, q, author.ID, "Other Post")

	_, err := q.CreateComment(ctx, CreateCommentParams{
		AuthorID: commenter.ID, PostID: post.ID, Text: "hello", CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	_, err = q.CreateComment(ctx, CreateCommentParams{
		AuthorID: commenter.ID, PostID: other.ID, Text: "elsewhere", CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	comments, err := q.GetCommentsForPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetCommentsForPost: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("len(comments) = %d, want 1 (filtered by post)", len(comments))
	}
	c := comments[0]
	if c.Text != "hello" {
		t.Errorf("Text = %q, want %q", c.Text, "hello")
	}
	if c.AuthorName != "Reader" || c.AuthorEmail != "reader@example.com" {
		t.Errorf("author not resolved: %q / %q", c.AuthorName, c.AuthorEmail)
	}
}

func TestCreateCommentMissingPost(t *testing.T) {
	db := testDB(t)
	q := New(db)

	commenter := createTestUser(t, q, "reader@example.com", "Reader")

	_, err := q.CreateComment(context.Background(), CreateCommentParams{
		AuthorID:  commenter.ID,
		PostID:    9999,
		Text:      "orphan",
		CreatedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("comment on a missing post should violate the foreign key")
	}
}

func TestSeedAdmin(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	params := SeedAdminParams{
		Email:    "admin@example.com",
		Password: "changeme",
		Name:     "Administrator",
	}

	if err := SeedAdmin(ctx, db, params); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}

	q := New(db)
	admin, err := q.GetUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if admin.ID != model.AdminUserID {
		t.Errorf("admin ID = %d, want %d", admin.ID, model.AdminUserID)
	}

	// Second call must be a no-op.
	if err := SeedAdmin(ctx, db, params); err != nil {
		t.Fatalf("SeedAdmin (second): %v", err)
	}
	count, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("CountUsers = %d, want 1", count)
	}
}

func TestCreateEvent(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	e, err := q.CreateEvent(ctx, CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryAuth,
		Message:   "User logged in",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if e.Metadata != "{}" {
		t.Errorf("empty metadata should default to {}, got %q", e.Metadata)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 || events[0].Message != "User logged in" {
		t.Errorf("unexpected events: %+v", events)
	}
}
