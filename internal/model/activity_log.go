package model

type ActivityLog struct {
	ID           string `json:"id"`
	MemorialID   string `json:"memorial_id"`
	ActivityType string `json:"activity_type"`
	DetailsJSON  string `json:"details_json"`
	Ctime        int64  `json:"ctime"`
}
