package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var errTest = errors.New("boom")

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/v1/collections", "200", 0.123)

	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/collections", "200"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestRecordGeminiCall(t *testing.T) {
	GeminiCallsTotal.Reset()
	GeminiCallDuration.Reset()

	RecordGeminiCall("generate", "success", 2.4)
	RecordGeminiCall("generate", "success", 1.9)
	RecordGeminiCall("transcribe", "error", 0.3)

	success := testutil.ToFloat64(GeminiCallsTotal.WithLabelValues("generate", "success"))
	if success != 2.0 {
		t.Errorf("Expected generate success counter to be 2.0, got %f", success)
	}

	failed := testutil.ToFloat64(GeminiCallsTotal.WithLabelValues("transcribe", "error"))
	if failed != 1.0 {
		t.Errorf("Expected transcribe error counter to be 1.0, got %f", failed)
	}
}

func TestRecordCreditCharge(t *testing.T) {
	CreditsChargedTotal.Reset()

	RecordCreditCharge("script_generation", 1)
	RecordCreditCharge("script_generation", 1)
	RecordCreditCharge("voice_training", 80)

	scripts := testutil.ToFloat64(CreditsChargedTotal.WithLabelValues("script_generation"))
	if scripts != 2.0 {
		t.Errorf("Expected script_generation credits to be 2.0, got %f", scripts)
	}

	voice := testutil.ToFloat64(CreditsChargedTotal.WithLabelValues("voice_training"))
	if voice != 80.0 {
		t.Errorf("Expected voice_training credits to be 80.0, got %f", voice)
	}
}

func TestTranscriptionQueueDepth(t *testing.T) {
	TranscriptionQueueDepth.Set(7)

	depth := testutil.ToFloat64(TranscriptionQueueDepth)
	if depth != 7.0 {
		t.Errorf("Expected queue depth to be 7.0, got %f", depth)
	}
}

func TestRecordCacheAccess(t *testing.T) {
	CacheHitsTotal.Reset()
	CacheMissesTotal.Reset()

	RecordCacheAccess("access_scope", true)
	RecordCacheAccess("access_scope", true)
	RecordCacheAccess("access_scope", false)

	hits := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("access_scope"))
	if hits != 2.0 {
		t.Errorf("Expected cache hits to be 2.0, got %f", hits)
	}

	misses := testutil.ToFloat64(CacheMissesTotal.WithLabelValues("access_scope"))
	if misses != 1.0 {
		t.Errorf("Expected cache misses to be 1.0, got %f", misses)
	}
}

func TestRecordStorageOperation(t *testing.T) {
	StorageOperationsTotal.Reset()

	RecordStorageOperation("upload", nil)
	RecordStorageOperation("upload", nil)
	RecordStorageOperation("upload", errTest)

	ok := testutil.ToFloat64(StorageOperationsTotal.WithLabelValues("upload", "success"))
	if ok != 2.0 {
		t.Errorf("Expected upload success counter to be 2.0, got %f", ok)
	}

	failed := testutil.ToFloat64(StorageOperationsTotal.WithLabelValues("upload", "error"))
	if failed != 1.0 {
		t.Errorf("Expected upload error counter to be 1.0, got %f", failed)
	}
}

func TestRecordWebhookDelivery(t *testing.T) {
	WebhookDeliveriesTotal.Reset()

	RecordWebhookDelivery("delivered")
	RecordWebhookDelivery("failed")
	RecordWebhookDelivery("delivered")

	delivered := testutil.ToFloat64(WebhookDeliveriesTotal.WithLabelValues("delivered"))
	if delivered != 2.0 {
		t.Errorf("Expected delivered counter to be 2.0, got %f", delivered)
	}

	failed := testutil.ToFloat64(WebhookDeliveriesTotal.WithLabelValues("failed"))
	if failed != 1.0 {
		t.Errorf("Expected failed counter to be 1.0, got %f", failed)
	}
}

func TestRecordError(t *testing.T) {
	ErrorsTotal.Reset()

	RecordError("api", "validation")
	RecordError("worker", "gemini")
	RecordError("api", "validation")

	apiErrors := testutil.ToFloat64(ErrorsTotal.WithLabelValues("api", "validation"))
	if apiErrors != 2.0 {
		t.Errorf("Expected API validation errors to be 2.0, got %f", apiErrors)
	}

	workerErrors := testutil.ToFloat64(ErrorsTotal.WithLabelValues("worker", "gemini"))
	if workerErrors != 1.0 {
		t.Errorf("Expected worker gemini errors to be 1.0, got %f", workerErrors)
	}
}

func BenchmarkRecordHTTPRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordHTTPRequest("GET", "/api/v1/collections", "200", 0.123)
	}
}
