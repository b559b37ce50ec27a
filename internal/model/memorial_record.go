package model

type MemorialRecord struct {
	ID               string  `json:"id"`
	Slug             string  `json:"memorial_slug"`
	EditToken        string  `json:"-"`
	CustomerID       string  `json:"customer_id"`
	DeceasedName     string  `json:"deceased_name"`
	DeceasedType     string  `json:"deceased_type"`
	Species          *string `json:"species"`
	BirthDate        *string `json:"birth_date"`
	DeathDate        *string `json:"death_date"`
	MemorialText     string  `json:"memorial_text"`
	Theme            string  `json:"theme"`
	Frame            string  `json:"frame"`
	PhotosJSON       string  `json:"photos_json"`
	VideosJSON       string  `json:"videos_json"`
	HostingDuration  int     `json:"hosting_duration"`
	ProductType      string  `json:"product_type"`
	HostingExpiresAt *int64  `json:"hosting_expires_at"`
	ReminderSentAt   *int64  `json:"reminder_sent_at"`
	Ctime            int64   `json:"ctime"`
	Mtime            int64   `json:"mtime"`
}

// Video is one entry of a memorial's videos_json list.
type Video struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}
