package model

// CatalogEntry 外部电影目录返回的条目，获取后不可变
type CatalogEntry struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	Director  string `json:"director"`
	Poster    string `json:"poster"`
	CatalogID string `json:"catalog_id"`
}

// Valid 目录条目至少需要标题
func (e *CatalogEntry) Valid() bool {
	return e != nil && e.Title != ""
}
