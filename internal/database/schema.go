package database

import (
	"context"
	"database/sql"
)

// schemaStatements creates every table the application uses. Statements are
// idempotent so startup can run them unconditionally. All monetary columns
// are integer cents; all timestamps are UTC DATETIMEs.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(64)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		phone         VARCHAR(32)  NOT NULL DEFAULT '',
		role          VARCHAR(16)  NOT NULL DEFAULT 'user',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_token_hash (token_hash),
		KEY idx_refresh_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS merchants (
		user_id        BIGINT UNSIGNED NOT NULL,
		name           VARCHAR(128) NOT NULL,
		license_number VARCHAR(64)  NOT NULL,
		contact_phone  VARCHAR(32)  NOT NULL,
		address        VARCHAR(255) NOT NULL DEFAULT '',
		description    TEXT         NULL,
		status         VARCHAR(16)  NOT NULL DEFAULT 'pending',
		created_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id),
		UNIQUE KEY uq_merchants_license (license_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS crew_applications (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id      BIGINT UNSIGNED NOT NULL,
		merchant_id  BIGINT UNSIGNED NOT NULL,
		cert_number  VARCHAR(64)  NOT NULL,
		years_at_sea INT          NOT NULL DEFAULT 0,
		intro        TEXT         NULL,
		status       VARCHAR(16)  NOT NULL DEFAULT 'pending',
		reason       VARCHAR(255) NOT NULL DEFAULT '',
		handled_at   DATETIME     NULL,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_crewapp_merchant_status (merchant_id, status),
		KEY idx_crewapp_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS crews (
		user_id      BIGINT UNSIGNED NOT NULL,
		merchant_id  BIGINT UNSIGNED NOT NULL,
		cert_number  VARCHAR(64)  NOT NULL,
		years_at_sea INT          NOT NULL DEFAULT 0,
		intro        TEXT         NULL,
		status       VARCHAR(16)  NOT NULL DEFAULT 'active',
		rating_avg   DOUBLE       NOT NULL DEFAULT 0,
		rating_count INT UNSIGNED NOT NULL DEFAULT 0,
		joined_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id),
		KEY idx_crews_merchant (merchant_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS boats (
		id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		merchant_id       BIGINT UNSIGNED NOT NULL,
		name              VARCHAR(128) NOT NULL,
		boat_type         VARCHAR(32)  NOT NULL,
		capacity          INT          NOT NULL,
		hourly_rate_cents BIGINT       NOT NULL,
		description       TEXT         NULL,
		status            VARCHAR(16)  NOT NULL DEFAULT 'available',
		created_at        DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_boats_merchant (merchant_id),
		KEY idx_boats_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS products (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		merchant_id BIGINT UNSIGNED NOT NULL,
		name        VARCHAR(128) NOT NULL,
		category    VARCHAR(32)  NOT NULL,
		price_cents BIGINT       NOT NULL,
		stock       INT          NOT NULL DEFAULT 0,
		unit        VARCHAR(16)  NOT NULL DEFAULT '',
		description TEXT         NULL,
		sales_count INT          NOT NULL DEFAULT 0,
		status      VARCHAR(16)  NOT NULL DEFAULT 'available',
		created_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_products_merchant (merchant_id),
		KEY idx_products_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cart_items (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		product_id BIGINT UNSIGNED NOT NULL,
		quantity   INT             NOT NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_cart_user_product (user_id, product_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		booking_number    VARCHAR(32)     NOT NULL,
		user_id           BIGINT UNSIGNED NOT NULL,
		boat_id           BIGINT UNSIGNED NOT NULL,
		merchant_id       BIGINT UNSIGNED NOT NULL,
		crew_id           BIGINT UNSIGNED NULL,
		start_at          DATETIME        NOT NULL,
		end_at            DATETIME        NOT NULL,
		passenger_count   INT             NOT NULL DEFAULT 1,
		hourly_rate_cents BIGINT          NOT NULL,
		total_cents       BIGINT          NOT NULL,
		status            VARCHAR(16)     NOT NULL DEFAULT 'pending',
		contact_name      VARCHAR(64)     NOT NULL,
		contact_phone     VARCHAR(32)     NOT NULL,
		user_notes        VARCHAR(255)    NOT NULL DEFAULT '',
		merchant_notes    VARCHAR(255)    NOT NULL DEFAULT '',
		cancel_reason     VARCHAR(255)    NOT NULL DEFAULT '',
		created_at        DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		confirmed_at      DATETIME        NULL,
		completed_at      DATETIME        NULL,
		cancelled_at      DATETIME        NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_booking_number (booking_number),
		KEY idx_bookings_boat_status (boat_id, status),
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_merchant_status (merchant_id, status),
		KEY idx_bookings_status_created (status, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		order_number     VARCHAR(32)     NOT NULL,
		user_id          BIGINT UNSIGNED NOT NULL,
		merchant_id      BIGINT UNSIGNED NOT NULL,
		total_cents      BIGINT          NOT NULL,
		shipping_cents   BIGINT          NOT NULL DEFAULT 0,
		final_cents      BIGINT          NOT NULL,
		status           VARCHAR(24)     NOT NULL DEFAULT 'pending_payment',
		payment_ref      VARCHAR(64)     NOT NULL DEFAULT '',
		carrier          VARCHAR(64)     NOT NULL DEFAULT '',
		tracking_no      VARCHAR(64)     NOT NULL DEFAULT '',
		receiver_name    VARCHAR(64)     NOT NULL,
		receiver_phone   VARCHAR(32)     NOT NULL,
		receiver_address VARCHAR(255)    NOT NULL,
		user_notes       VARCHAR(255)    NOT NULL DEFAULT '',
		cancel_reason    VARCHAR(255)    NOT NULL DEFAULT '',
		created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		paid_at          DATETIME        NULL,
		shipped_at       DATETIME        NULL,
		completed_at     DATETIME        NULL,
		cancelled_at     DATETIME        NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_order_number (order_number),
		KEY idx_orders_user (user_id),
		KEY idx_orders_merchant_status (merchant_id, status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		order_id         BIGINT UNSIGNED NOT NULL,
		product_id       BIGINT UNSIGNED NOT NULL,
		product_name     VARCHAR(128)    NOT NULL,
		product_unit     VARCHAR(16)     NOT NULL DEFAULT '',
		quantity         INT             NOT NULL,
		unit_price_cents BIGINT          NOT NULL,
		total_cents      BIGINT          NOT NULL,
		created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_order_items_order (order_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS split_rules (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		kind         VARCHAR(32)  NOT NULL,
		platform_bps INT          NOT NULL,
		merchant_bps INT          NOT NULL,
		crew_bps     INT          NOT NULL,
		description  VARCHAR(255) NOT NULL DEFAULT '',
		is_active    TINYINT(1)   NOT NULL DEFAULT 1,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_split_rules_kind_active (kind, is_active)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS split_records (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		split_number   VARCHAR(32)     NOT NULL,
		kind           VARCHAR(32)     NOT NULL,
		source_id      BIGINT UNSIGNED NOT NULL,
		rule_id        BIGINT UNSIGNED NOT NULL,
		merchant_id    BIGINT UNSIGNED NOT NULL,
		crew_id        BIGINT UNSIGNED NULL,
		gross_cents    BIGINT          NOT NULL,
		platform_cents BIGINT          NOT NULL,
		merchant_cents BIGINT          NOT NULL,
		crew_cents     BIGINT          NOT NULL,
		created_at     DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_split_source (kind, source_id),
		UNIQUE KEY uq_split_number (split_number),
		KEY idx_split_merchant (merchant_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		kind       VARCHAR(32)     NOT NULL,
		title      VARCHAR(128)    NOT NULL,
		body       VARCHAR(512)    NOT NULL,
		related_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		is_read    TINYINT(1)      NOT NULL DEFAULT 0,
		read_at    DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_notifications_user_read (user_id, is_read)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS crew_ratings (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		booking_id BIGINT UNSIGNED NOT NULL,
		user_id    BIGINT UNSIGNED NOT NULL,
		crew_id    BIGINT UNSIGNED NOT NULL,
		rating     INT             NOT NULL,
		comment    VARCHAR(512)    NOT NULL DEFAULT '',
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_rating_booking (booking_id),
		KEY idx_ratings_crew (crew_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS product_reviews (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		order_item_id BIGINT UNSIGNED NOT NULL,
		order_id      BIGINT UNSIGNED NOT NULL,
		product_id    BIGINT UNSIGNED NOT NULL,
		user_id       BIGINT UNSIGNED NOT NULL,
		rating        INT             NOT NULL,
		comment       VARCHAR(512)    NOT NULL DEFAULT '',
		created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_review_order_item (order_item_id),
		KEY idx_reviews_product (product_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SeedSplitRules inserts the default revenue-sharing rules when no active
// rule exists for a kind. Defaults: bookings 5% platform / 35% merchant /
// 60% crew, product orders 10% platform / 90% merchant.
func SeedSplitRules(ctx context.Context, db *sql.DB) error {
	defaults := []struct {
		kind                         string
		platformBps, merchBps, crewBps int
		desc                         string
	}{
		{"booking_service", 500, 3500, 6000, "default booking split"},
		{"product_order", 1000, 9000, 0, "default product order split"},
	}
	for _, d := range defaults {
		var n int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM split_rules WHERE kind=? AND is_active=1", d.kind).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		_, err = db.ExecContext(ctx,
			"INSERT INTO split_rules (kind, platform_bps, merchant_bps, crew_bps, description, is_active) VALUES (?,?,?,?,?,1)",
			d.kind, d.platformBps, d.merchBps, d.crewBps, d.desc)
		if err != nil {
			return err
		}
	}
	return nil
}
