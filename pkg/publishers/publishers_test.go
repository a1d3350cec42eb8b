package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: queue
    type: SQS
    sqs:
      uri: https://sqs.ap-south-1.amazonaws.com/123/news
      region: ap-south-1
  - id: gcp
    type: pubsub
    pubsub:
      project_id: samvad
      topic: headlines
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "queue" || enabled[1].ID != "gcp" {
		t.Fatalf("unexpected enabled publishers %#v", enabled)
	}

	queue, ok := reg.ByID("queue")
	if !ok || queue.Type != TypeSQS || queue.SQS.Region != "ap-south-1" {
		t.Fatalf("inline aws config not decoded: %#v", queue.SQS)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{"publishers":[{"id":"topic","type":"sns","sns":{"topic_arn":"arn:aws:sns:us-east-1:1:news","region":"us-east-1"}}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("topic")
	if !ok || cfg.SNS.TopicARN != "arn:aws:sns:us-east-1:1:news" || cfg.SNS.Region != "us-east-1" {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: dup
    type: http
    http: {url: https://a.example}
  - id: dup
    type: http
    http: {url: https://b.example}
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate publisher error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing http":     {ID: "h1", Type: TypeHTTP},
		"missing queue":    {ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{AWSConfig: AWSConfig{Region: "us-east-1"}}},
		"missing region":   {ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn"}},
		"half credentials": {ID: "s2", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn", AWSConfig: AWSConfig{Region: "r", AccessKeyID: "k"}}},
		"missing pubsub":   {ID: "p1", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}},
		"missing type":     {ID: "x"},
	}
	for name, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
