package request_models

type CaptionRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Platform string `json:"platform" binding:"required"`
	Tone     string `json:"tone"`
}
