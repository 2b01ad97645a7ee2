package schemas

// LoadPostContent extracts the content of a wall post payload. A missing or
// non-string content yields an empty string, which the wall rejects.
func LoadPostContent(body []byte) string {
	p := parsePayload(body)
	content := p.stringField("content", FieldErrors{})
	if content == nil {
		return ""
	}
	return *content
}
