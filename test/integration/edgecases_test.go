package integration

import (
	"bytes"
	"net/http"
	"testing"
)

func TestIntegration_ValidationErrors(t *testing.T) {
	waitReady(t)
	u := baseURL()

	cases := []struct {
		name, body, ctype string
		want              int
	}{
		{"missing_fields", `{}`, "application/json", http.StatusBadRequest},
		{"negative_price", `{"name":"e1","price":-1,"status":"ACTIVE"}`, "application/json", http.StatusBadRequest},
		{"bad_status", `{"name":"e2","price":1,"status":"SOLD"}`, "application/json", http.StatusBadRequest},
		{"read_only_id", `{"productId":"x","name":"e3","price":1,"status":"ACTIVE"}`, "application/json", http.StatusBadRequest},
		{"malformed_json", `{"name":"e4",`, "application/json", http.StatusBadRequest},
		{"wrong_content_type", `{"name":"e5","price":1,"status":"ACTIVE"}`, "text/plain", http.StatusUnsupportedMediaType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodPost, u+"/products", bytes.NewBufferString(tc.body))
			r.Header.Set("Content-Type", tc.ctype)
			resp, err := http.DefaultClient.Do(r)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
			}
		})
	}
}
