// ABOUTME: SQLite storage implementation using modernc.org/sqlite (pure Go)
// ABOUTME: Feed/post persistence with an explicitly-populated FTS5 search index

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/reeder/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite storage instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency. The busy
	// timeout makes concurrent import transactions queue instead of
	// failing immediately with SQLITE_BUSY.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows one writer at a time. A single pooled connection
	// queues concurrent CommitSync transactions in the pool instead of
	// letting them contend for the write lock; the busy timeout covers
	// any waits that still reach SQLite.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS feeds (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			url TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			site_url TEXT NOT NULL DEFAULT '',
			last_modified_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_feeds_url ON feeds(url);
		CREATE INDEX IF NOT EXISTS idx_feeds_id ON feeds(id);

		CREATE TABLE IF NOT EXISTS posts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			feed_id TEXT NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL,
			content TEXT NOT NULL,
			published_at TIMESTAMP NOT NULL,
			read_at TIMESTAMP,
			bookmarked INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			UNIQUE(feed_id, url)
		);

		CREATE INDEX IF NOT EXISTS idx_posts_feed_id ON posts(feed_id);
		CREATE INDEX IF NOT EXISTS idx_posts_published_at ON posts(published_at);
		CREATE INDEX IF NOT EXISTS idx_posts_id ON posts(id);

		-- FTS5 index, populated by IndexPost rather than triggers so
		-- indexing stays decoupled from the transactional write path
		CREATE VIRTUAL TABLE IF NOT EXISTS posts_fts USING fts5(
			title,
			author,
			content,
			content=posts,
			content_rowid=rowid
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Feed Operations

const feedColumns = "id, url, title, description, site_url, last_modified_at, created_at"

// GetFeed retrieves a feed by ID.
func (s *SQLiteStore) GetFeed(id string) (*models.Feed, error) {
	query := "SELECT " + feedColumns + " FROM feeds WHERE id = ?"
	feed, err := scanFeed(s.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	if feed == nil {
		return nil, fmt.Errorf("feed not found: %s", id)
	}
	return feed, nil
}

// GetFeedByURL finds a feed by its URL. Returns (nil, nil) when absent.
func (s *SQLiteStore) GetFeedByURL(url string) (*models.Feed, error) {
	query := "SELECT " + feedColumns + " FROM feeds WHERE url = ?"
	return scanFeed(s.db.QueryRow(query, url))
}

// GetFeedByRef finds a feed by exact URL, exact ID, or ID prefix.
func (s *SQLiteStore) GetFeedByRef(ref string) (*models.Feed, error) {
	if feed, err := s.GetFeedByURL(ref); err == nil && feed != nil {
		return feed, nil
	}
	if feed, err := s.GetFeed(ref); err == nil {
		return feed, nil
	}

	feed, err := s.getFeedByPrefix(ref)
	if err != nil {
		return nil, fmt.Errorf("feed not found: %s", ref)
	}
	return feed, nil
}

// getFeedByPrefix finds a feed by ID prefix (min 6 chars).
func (s *SQLiteStore) getFeedByPrefix(prefix string) (*models.Feed, error) {
	if len(prefix) < 6 {
		return nil, fmt.Errorf("prefix must be at least 6 characters")
	}

	query := "SELECT " + feedColumns + " FROM feeds WHERE id LIKE ?"
	rows, err := s.db.Query(query, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query feeds: %w", err)
	}
	defer rows.Close()

	var matches []*models.Feed
	for rows.Next() {
		feed, err := scanFeedFromRows(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, feed)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no feed found with prefix %s", prefix)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous prefix %s matches %d feeds", prefix, len(matches))
	}
	return matches[0], nil
}

// ListFeeds returns all feeds, most recently synced first.
func (s *SQLiteStore) ListFeeds() ([]*models.Feed, error) {
	query := "SELECT " + feedColumns + " FROM feeds ORDER BY last_modified_at DESC, created_at DESC"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query feeds: %w", err)
	}
	defer rows.Close()

	var feeds []*models.Feed
	for rows.Next() {
		feed, err := scanFeedFromRows(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	return feeds, nil
}

// DeleteFeed removes a feed and all its posts (cascade), including
// their full-text index rows.
func (s *SQLiteStore) DeleteFeed(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	// The cascade only removes posts rows; the external-content FTS
	// table keeps its entries unless told the old values are gone.
	_, err = tx.Exec(`
		INSERT INTO posts_fts (posts_fts, rowid, title, author, content)
		SELECT 'delete', rowid, title, author, content FROM posts WHERE feed_id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("deindex posts: %w", err)
	}

	result, err := tx.Exec("DELETE FROM feeds WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("feed not found: %s", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// Sync Operations

// CommitSync applies one feed sync as a single transaction: feed upsert
// by URL plus inserts of only-new posts. Either everything commits or
// nothing is visible.
func (s *SQLiteStore) CommitSync(feed *models.Feed, posts []*models.Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin sync transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO feeds (id, url, title, description, site_url, last_modified_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			site_url = excluded.site_url,
			last_modified_at = excluded.last_modified_at
	`, feed.ID, feed.URL, feed.Title, feed.Description, feed.SiteURL,
		timeToSQL(feed.LastModifiedAt), feed.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert feed: %w", err)
	}

	// The conflict path keeps the stored feed's identity; adopt it so
	// the posts attach to the right row.
	var storedID string
	var createdAt time.Time
	if err := tx.QueryRow(`SELECT id, created_at FROM feeds WHERE url = ?`, feed.URL).Scan(&storedID, &createdAt); err != nil {
		return fmt.Errorf("resolve feed identity: %w", err)
	}
	feed.ID = storedID
	feed.CreatedAt = createdAt

	for _, post := range posts {
		post.FeedID = storedID
		_, err := tx.Exec(`
			INSERT INTO posts (id, feed_id, title, author, url, content, published_at, read_at, bookmarked, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(feed_id, url) DO NOTHING
		`, post.ID, post.FeedID, post.Title, post.Author, post.URL, post.Content,
			post.PublishedAt, timeToSQL(post.ReadAt), boolToInt(post.Bookmarked), post.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sync: %w", err)
	}
	return nil
}

// PostURLs returns the set of post URLs already stored for a feed.
func (s *SQLiteStore) PostURLs(feedID string) (map[string]struct{}, error) {
	rows, err := s.db.Query(`SELECT url FROM posts WHERE feed_id = ?`, feedID)
	if err != nil {
		return nil, fmt.Errorf("query post urls: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan post url: %w", err)
		}
		urls[url] = struct{}{}
	}
	return urls, rows.Err()
}

// Post Operations

const postColumns = "id, feed_id, title, author, url, content, published_at, read_at, bookmarked, created_at"

// GetPost retrieves a post by ID.
func (s *SQLiteStore) GetPost(id string) (*models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE id = ?"
	post, err := scanPost(s.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post not found: %s", id)
	}
	return post, nil
}

// GetPostByRef finds a post by exact ID or ID prefix.
func (s *SQLiteStore) GetPostByRef(ref string) (*models.Post, error) {
	if post, err := s.GetPost(ref); err == nil {
		return post, nil
	}

	post, err := s.getPostByPrefix(ref)
	if err != nil {
		return nil, fmt.Errorf("post not found: %s", ref)
	}
	return post, nil
}

// getPostByPrefix finds a post by ID prefix (min 6 chars).
func (s *SQLiteStore) getPostByPrefix(prefix string) (*models.Post, error) {
	if len(prefix) < 6 {
		return nil, fmt.Errorf("prefix must be at least 6 characters")
	}

	query := "SELECT " + postColumns + " FROM posts WHERE id LIKE ?"
	rows, err := s.db.Query(query, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var matches []*models.Post
	for rows.Next() {
		post, err := scanPostFromRows(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, post)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no post found with prefix %s", prefix)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous prefix %s matches %d posts", prefix, len(matches))
	}
	return matches[0], nil
}

// ListPosts returns posts matching the filter, newest first.
func (s *SQLiteStore) ListPosts(filter *PostFilter) ([]*models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts"

	var conditions []string
	var args []interface{}

	if filter != nil {
		if filter.FeedID != nil {
			conditions = append(conditions, "feed_id = ?")
			args = append(args, *filter.FeedID)
		}
		if filter.UnreadOnly != nil && *filter.UnreadOnly {
			conditions = append(conditions, "read_at IS NULL")
		}
		if filter.BookmarkedOnly != nil && *filter.BookmarkedOnly {
			conditions = append(conditions, "bookmarked = 1")
		}
		if filter.Since != nil {
			conditions = append(conditions, "published_at >= ?")
			args = append(args, *filter.Since)
		}
		if filter.Until != nil {
			conditions = append(conditions, "published_at < ?")
			args = append(args, *filter.Until)
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY published_at DESC"

	if filter != nil {
		if filter.Limit != nil {
			query += fmt.Sprintf(" LIMIT %d", *filter.Limit)
		}
		if filter.Offset != nil {
			if filter.Limit == nil {
				query += " LIMIT -1"
			}
			query += fmt.Sprintf(" OFFSET %d", *filter.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPostFromRows(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// MarkPostRead sets read_at once; an already-read post keeps its
// original timestamp. Returns the post either way.
func (s *SQLiteStore) MarkPostRead(id string) (*models.Post, error) {
	query := `UPDATE posts SET read_at = COALESCE(read_at, ?) WHERE id = ?`
	result, err := s.db.Exec(query, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("mark post read: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("post not found: %s", id)
	}
	return s.GetPost(id)
}

// BookmarkPost sets the bookmark flag. Never cleared by this path.
// Returns the post either way.
func (s *SQLiteStore) BookmarkPost(id string) (*models.Post, error) {
	result, err := s.db.Exec(`UPDATE posts SET bookmarked = 1 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("bookmark post: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("post not found: %s", id)
	}
	return s.GetPost(id)
}

// CountUnreadPosts counts unread posts, optionally filtered by feedID.
func (s *SQLiteStore) CountUnreadPosts(feedID *string) (int, error) {
	var count int
	var query string
	var args []interface{}

	if feedID != nil {
		query = `SELECT COUNT(*) FROM posts WHERE read_at IS NULL AND feed_id = ?`
		args = append(args, *feedID)
	} else {
		query = `SELECT COUNT(*) FROM posts WHERE read_at IS NULL`
	}

	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread posts: %w", err)
	}
	return count, nil
}

// Statistics

// GetFeedStats retrieves per-feed post and unread counts.
func (s *SQLiteStore) GetFeedStats() ([]FeedStatsRow, error) {
	query := `
		SELECT f.id, f.url, f.title, f.last_modified_at,
			   COUNT(p.id) as post_count,
			   SUM(CASE WHEN p.read_at IS NULL THEN 1 ELSE 0 END) as unread_count
		FROM feeds f
		LEFT JOIN posts p ON f.id = p.feed_id
		GROUP BY f.id
		ORDER BY f.created_at DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query feed stats: %w", err)
	}
	defer rows.Close()

	var stats []FeedStatsRow
	for rows.Next() {
		var row FeedStatsRow
		var lastModified sql.NullTime
		var unreadCount sql.NullInt64
		if err := rows.Scan(
			&row.FeedID, &row.FeedURL, &row.FeedTitle, &lastModified,
			&row.PostCount, &unreadCount,
		); err != nil {
			return nil, fmt.Errorf("scan feed stats: %w", err)
		}
		if lastModified.Valid {
			row.LastModifiedAt = &lastModified.Time
		}
		if unreadCount.Valid {
			row.UnreadCount = int(unreadCount.Int64)
		}
		stats = append(stats, row)
	}
	return stats, nil
}

// Search

// IndexPost adds a post to the full-text index. Re-indexing the same
// post replaces its previous index entry.
func (s *SQLiteStore) IndexPost(post *models.Post) error {
	var rowid int64
	if err := s.db.QueryRow(`SELECT rowid FROM posts WHERE id = ?`, post.ID).Scan(&rowid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("index post: post %s not persisted", post.ID)
		}
		return fmt.Errorf("index post: %w", err)
	}

	_, err := s.db.Exec(`
		INSERT INTO posts_fts(rowid, title, author, content)
		VALUES (?, ?, ?, ?)
	`, rowid, post.Title, post.Author, post.Content)
	if err != nil {
		return fmt.Errorf("index post: %w", err)
	}
	return nil
}

// Search performs full-text search over indexed posts.
func (s *SQLiteStore) Search(query string, limit int) ([]*models.Post, error) {
	sqlQuery := `
		SELECT p.id, p.feed_id, p.title, p.author, p.url, p.content, p.published_at, p.read_at, p.bookmarked, p.created_at
		FROM posts p
		INNER JOIN posts_fts fts ON p.rowid = fts.rowid
		WHERE posts_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`

	rows, err := s.db.Query(sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPostFromRows(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Maintenance

// Compact performs database maintenance (VACUUM).
func (s *SQLiteStore) Compact() error {
	_, err := s.db.Exec("VACUUM")
	if err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// Helper functions

func scanFeed(row *sql.Row) (*models.Feed, error) {
	var feed models.Feed
	var lastModified sql.NullTime
	if err := row.Scan(
		&feed.ID, &feed.URL, &feed.Title, &feed.Description,
		&feed.SiteURL, &lastModified, &feed.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan feed: %w", err)
	}
	if lastModified.Valid {
		feed.LastModifiedAt = &lastModified.Time
	}
	return &feed, nil
}

func scanFeedFromRows(rows *sql.Rows) (*models.Feed, error) {
	var feed models.Feed
	var lastModified sql.NullTime
	if err := rows.Scan(
		&feed.ID, &feed.URL, &feed.Title, &feed.Description,
		&feed.SiteURL, &lastModified, &feed.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan feed: %w", err)
	}
	if lastModified.Valid {
		feed.LastModifiedAt = &lastModified.Time
	}
	return &feed, nil
}

func scanPost(row *sql.Row) (*models.Post, error) {
	var post models.Post
	var readAt sql.NullTime
	var bookmarkedInt int
	if err := row.Scan(
		&post.ID, &post.FeedID, &post.Title, &post.Author, &post.URL,
		&post.Content, &post.PublishedAt, &readAt, &bookmarkedInt,
		&post.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	if readAt.Valid {
		post.ReadAt = &readAt.Time
	}
	post.Bookmarked = bookmarkedInt != 0
	return &post, nil
}

func scanPostFromRows(rows *sql.Rows) (*models.Post, error) {
	var post models.Post
	var readAt sql.NullTime
	var bookmarkedInt int
	if err := rows.Scan(
		&post.ID, &post.FeedID, &post.Title, &post.Author, &post.URL,
		&post.Content, &post.PublishedAt, &readAt, &bookmarkedInt,
		&post.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	if readAt.Valid {
		post.ReadAt = &readAt.Time
	}
	post.Bookmarked = bookmarkedInt != 0
	return &post, nil
}

func timeToSQL(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
