package store

// DDL for the normalized review schema. Natural-key uniqueness lives in the
// schema itself so that lookup-table loads stay idempotent across runs.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS site_origin(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS region(
		city TEXT,
		state TEXT,
		PRIMARY KEY (city, state)
	)`,
	`CREATE TABLE IF NOT EXISTS tag(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS price_point(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		price_point TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS restaurant(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		price_point_id INTEGER,
		cuisine TEXT,
		description TEXT,
		city TEXT,
		state TEXT,
		FOREIGN KEY(city, state) REFERENCES region(city, state),
		FOREIGN KEY(price_point_id) REFERENCES price_point(id)
	)`,
	`CREATE TABLE IF NOT EXISTS restaurant_tag(
		restaurant_id INTEGER,
		tag_id INTEGER,
		PRIMARY KEY (restaurant_id, tag_id),
		FOREIGN KEY(restaurant_id) REFERENCES restaurant(id),
		FOREIGN KEY(tag_id) REFERENCES tag(id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviewer(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		hometown TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS review(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		restaurant_id INTEGER,
		reviewer_id INTEGER,
		site_origin_id INTEGER,
		rating INTEGER,
		date TEXT,
		review_text TEXT,
		FOREIGN KEY(restaurant_id) REFERENCES restaurant(id),
		FOREIGN KEY(reviewer_id) REFERENCES reviewer(id),
		FOREIGN KEY(site_origin_id) REFERENCES site_origin(id)
	)`,
	`CREATE TABLE IF NOT EXISTS category_rating(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reviewer_id INTEGER,
		review_id INTEGER,
		food INTEGER,
		ambience INTEGER,
		service INTEGER,
		FOREIGN KEY(reviewer_id) REFERENCES reviewer(id),
		FOREIGN KEY(review_id) REFERENCES review(id)
	)`,
}
