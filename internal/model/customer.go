package model

type Customer struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Ctime    int64  `json:"ctime"`
}
