package models

// Upload is a stored track file with its durable URL
type Upload struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"userId" db:"user_id"`
	FileName  string `json:"fileName" db:"file_name"`
	FileURL   string `json:"fileUrl" db:"file_url"`
	SizeBytes int64  `json:"sizeBytes" db:"size_bytes"`
	CreatedAt string `json:"createdAt,omitempty" db:"created_at"`
}
