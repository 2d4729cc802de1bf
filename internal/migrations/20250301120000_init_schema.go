package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInitSchema, downInitSchema)
}

func upInitSchema(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE profiles (
		instagram_id VARCHAR(50) PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		full_name VARCHAR(200),
		biography TEXT,
		profile_pic_url TEXT,
		follower_count INTEGER,
		following_count INTEGER,
		post_count INTEGER,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		fetched_at TIMESTAMP WITH TIME ZONE
	);
	CREATE INDEX idx_profiles_username ON profiles (username);

	CREATE TABLE posts (
		shortcode VARCHAR(20) PRIMARY KEY,
		profile_id VARCHAR(50) NOT NULL REFERENCES profiles (instagram_id) ON DELETE CASCADE,
		typename VARCHAR(50),
		caption TEXT,
		taken_at TIMESTAMP WITH TIME ZONE,
		like_count INTEGER,
		comment_count INTEGER,
		display_url TEXT,
		is_video BOOLEAN NOT NULL DEFAULT FALSE,
		video_url TEXT,
		is_downloaded BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	CREATE INDEX idx_posts_profile_id ON posts (profile_id);

	CREATE TABLE media (
		id SERIAL PRIMARY KEY,
		post_shortcode VARCHAR(20) NOT NULL REFERENCES posts (shortcode) ON DELETE CASCADE,
		url TEXT NOT NULL,
		media_type VARCHAR(20),
		ordinal INTEGER NOT NULL DEFAULT 0,
		local_path TEXT,
		is_downloaded BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		UNIQUE (post_shortcode, ordinal)
	);
	CREATE INDEX idx_media_post_shortcode ON media (post_shortcode);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downInitSchema(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE media;
	DROP TABLE posts;
	DROP TABLE profiles;
	`)
	if err != nil {
		return err
	}
	return nil
}
