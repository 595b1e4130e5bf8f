// Command digest summarizes a request file into a digest on stdout, running
// the same engine as the digestd service without Kafka or HTTP.
//
// Usage:
//
//	digest data/mock/summarize_request.json
//	digest --type outlier-detection --outliers request.yaml
//	digest validate request.json
package main

func main() {
	Execute()
}
