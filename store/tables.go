package store

const (
	postsTable    = "posts"
	postmetaTable = "postmeta"
	termsTable    = "terms"
	relTable      = "term_relationships"
	optionsTable  = "options"
	geoCacheTable = "wpem_geo_cache"
)

var postCols = []string{"post_type", "post_title", "post_content", "post_status", "post_author", "post_parent", "menu_order", "guid", "post_mime_type", "post_date", "post_modified"}

const postSelect = `SELECT p.id, p.post_type, p.post_title, p.post_content, p.post_status, p.post_author, p.post_parent, p.menu_order, p.guid, p.post_mime_type, p.post_date, p.post_modified FROM posts p`

var schema = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		post_type VARCHAR(20) NOT NULL,
		post_title TEXT NOT NULL,
		post_content LONGTEXT NOT NULL,
		post_status VARCHAR(20) NOT NULL,
		post_author BIGINT UNSIGNED NOT NULL DEFAULT 0,
		post_parent BIGINT UNSIGNED NOT NULL DEFAULT 0,
		menu_order INT NOT NULL DEFAULT 0,
		guid VARCHAR(255) NOT NULL DEFAULT '',
		post_mime_type VARCHAR(100) NOT NULL DEFAULT '',
		post_date DATETIME NOT NULL,
		post_modified DATETIME NOT NULL,
		PRIMARY KEY (id),
		KEY type_status_date (post_type, post_status, post_date, id),
		KEY post_author (post_author),
		KEY post_parent (post_parent)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS postmeta (
		meta_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		post_id BIGINT UNSIGNED NOT NULL,
		meta_key VARCHAR(191) NOT NULL,
		meta_value LONGTEXT,
		PRIMARY KEY (meta_id),
		UNIQUE KEY post_key (post_id, meta_key)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS terms (
		term_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		taxonomy VARCHAR(32) NOT NULL,
		name VARCHAR(200) NOT NULL,
		slug VARCHAR(200) NOT NULL,
		parent BIGINT UNSIGNED NOT NULL DEFAULT 0,
		PRIMARY KEY (term_id),
		UNIQUE KEY taxonomy_slug (taxonomy, slug)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS term_relationships (
		object_id BIGINT UNSIGNED NOT NULL,
		term_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (object_id, term_id),
		KEY term_id (term_id)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS options (
		option_name VARCHAR(191) NOT NULL,
		option_value LONGTEXT NOT NULL,
		PRIMARY KEY (option_name)
	) DEFAULT CHARSET=utf8mb4`,
}

const geoCacheSchema = `CREATE TABLE IF NOT EXISTS wpem_geo_cache (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	object_id BIGINT UNSIGNED NOT NULL,
	lat DECIMAL(10,8) NOT NULL,
	lng DECIMAL(11,8) NOT NULL,
	PRIMARY KEY (id),
	UNIQUE KEY object_id (object_id)
) DEFAULT CHARSET=utf8mb4`
