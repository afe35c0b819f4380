package model

type RenderResponse struct {
	Markup string `json:"markup"`
}

type SplitRequestBody struct {
	Duration string `json:"duration"`
	Cap      string `json:"cap,omitempty"`
}

type SplitResponse struct {
	Tokens []string `json:"tokens"`
}

type DurationEntry struct {
	Token string `json:"token"`
	Beats string `json:"beats"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
