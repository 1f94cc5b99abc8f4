package usecase

type HandleTurnInput struct {
	LeadID  string `json:"lead_id"`
	Message string `json:"message"`
}

type HandleTurnOutput struct {
	Response string `json:"response"`
	// AwaitingConfirmation indica que a resposta é o resumo para confirmar.
	AwaitingConfirmation bool `json:"-"`
	Confirmed            bool `json:"-"`
}

type StartConversationInput struct {
	LeadID string `json:"lead_id"`
	Name   string `json:"name"`
}

type StartConversationOutput struct {
	LeadID   string `json:"lead_id"`
	Greeting string `json:"greeting"`
}

type CompactLeadsOutput struct {
	Kept    int `json:"kept"`
	Removed int `json:"removed"`
}
