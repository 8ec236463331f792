package batches

// Message is a single role-tagged chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RequestBody is the chat completion payload carried by a batch request line.
type RequestBody struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// RequestRecord is one line of a batch input file. CustomID is the synthetic
// request identifier that correlates each result back to its originating
// prompt; the service does not guarantee positional alignment.
type RequestRecord struct {
	CustomID string      `json:"custom_id"`
	Method   string      `json:"method"`
	URL      string      `json:"url"`
	Body     RequestBody `json:"body"`
}

// Choice is a single completion choice within a chat completion body.
type Choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

// CompletionBody is the chat completion object embedded in a result line.
type CompletionBody struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// ResultResponse is the per-request response envelope within a result line.
type ResultResponse struct {
	StatusCode int             `json:"status_code"`
	RequestID  string          `json:"request_id,omitempty"`
	Body       *CompletionBody `json:"body,omitempty"`
}

// ResultError reports a request-level failure within a result line.
type ResultError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ResultRecord is one line of a batch output file.
type ResultRecord struct {
	ID       string          `json:"id,omitempty"`
	CustomID string          `json:"custom_id"`
	Response *ResultResponse `json:"response,omitempty"`
	Error    *ResultError    `json:"error,omitempty"`
}

// Content returns the assistant output text of a result line, or false when
// the request errored or the response carries no usable completion.
func (r *ResultRecord) Content() (string, bool) {
	if r.Error != nil {
		return "", false
	}

	if r.Response == nil || r.Response.StatusCode != 200 || r.Response.Body == nil {
		return "", false
	}

	if len(r.Response.Body.Choices) == 0 {
		return "", false
	}

	return r.Response.Body.Choices[0].Message.Content, true
}
