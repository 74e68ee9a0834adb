package dto

type CandidateResponse struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Alias       string   `json:"alias"`
	Age         int      `json:"age"`
	Bio         string   `json:"bio"`
	Interests   []string `json:"interests"`
	Gender      string   `json:"gender"`
	Ethnicity   string   `json:"ethnicity"`
	Photos      []string `json:"photos"`
}

type CandidatesResponse struct {
	Success    bool                `json:"success"`
	Candidates []CandidateResponse `json:"candidates"`
}
