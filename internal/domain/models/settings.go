package models

// Settings - единственная строка таблицы settings (id = 1)
type Settings struct {
	CDNEnabled bool   `db:"is_cdn_enabled" json:"cdnEnabled"`
	CDNURL     string `db:"cdn_url" json:"cdnUrl"`
}
