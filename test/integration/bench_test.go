package integration

import (
	"bytes"
	"net/http"
	"testing"
)

// Benchmark for GET /products; to run: BASE_URL=... go test -bench=. ./test/integration -run ^$
func BenchmarkListProducts(b *testing.B) {
	waitReady(b)
	u := baseURL()
	client := &http.Client{}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := client.Get(u + "/products")
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}

func BenchmarkCreateProduct(b *testing.B) {
	waitReady(b)
	u := baseURL()
	client := &http.Client{}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			body := []byte(`{"name":"bench","price":1,"status":"ACTIVE"}`)
			r, _ := http.NewRequest(http.MethodPost, u+"/products", bytes.NewBuffer(body))
			r.Header.Set("Content-Type", "application/json")
			resp, err := client.Do(r)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}
