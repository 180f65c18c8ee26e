package models

type SeedResult struct {
	AlreadySeeded bool `json:"alreadySeeded"`
	Users         int  `json:"users"`
	Universities  int  `json:"universities"`
	Products      int  `json:"products"`
	Orders        int  `json:"orders"`
}
