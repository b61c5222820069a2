package request_models

type RateMealRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

type DowngradeRequest struct {
	Reason string `json:"reason"`
}
