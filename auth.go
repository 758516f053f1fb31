package dhis2

import "encoding/base64"

// basicAuthHeaders builds the fixed header set sent with every request:
// HTTP Basic authorization plus JSON content negotiation.
func basicAuthHeaders(username, password string) map[string]string {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return map[string]string{
		"Authorization": "Basic " + token,
		"Accept":        "application/json",
		"Content-Type":  "application/json",
	}
}
