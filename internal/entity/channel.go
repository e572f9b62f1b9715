package entity

type Channel struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	MarkupPercent string `json:"markup_percent"` // decimal text, e.g. "15.00"
}

// ChannelMarkup is the body of a set-markup request.
type ChannelMarkup struct {
	ChannelID     string `json:"channel_id"`
	MarkupPercent string `json:"markup_percent"`
}

/*
Mysql Table

CREATE TABLE channels (
	id VARCHAR(255) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	slug VARCHAR(255) NOT NULL UNIQUE,
	markup_percent DECIMAL(10,2) NOT NULL DEFAULT 0
);
*/
