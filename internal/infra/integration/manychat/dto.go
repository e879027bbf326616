package manychat

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type content struct {
	Messages []textMessage `json:"messages"`
}

type sendData struct {
	Version string  `json:"version"`
	Content content `json:"content"`
}

type sendBySubscriberRequest struct {
	SubscriberID string   `json:"subscriber_id"`
	Data         sendData `json:"data"`
}

type sendByPhoneRequest struct {
	Phone string   `json:"phone"`
	Data  sendData `json:"data"`
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
