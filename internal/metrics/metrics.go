package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns          int64
	ArticlesFetched    int64
	SourceFailures     int64
	ExtractionByMethod map[string]int64
	ExtractionFailures int64
	AIRequests         int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true, ExtractionByMethod: map[string]int64{}}
}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

// RecordExtraction counts one extraction outcome; an empty method is a failure.
func (m *Metrics) RecordExtraction(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if method == "" {
		m.ExtractionFailures++
		return
	}
	if m.ExtractionByMethod == nil {
		m.ExtractionByMethod = map[string]int64{}
	}
	m.ExtractionByMethod[method]++
}

func (m *Metrics) IncrementAIRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AIRequests++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRuns++
	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byMethod := make(map[string]int64, len(m.ExtractionByMethod))
	for k, v := range m.ExtractionByMethod {
		byMethod[k] = v
	}

	return map[string]interface{}{
		"total_runs":                 m.TotalRuns,
		"articles_fetched":           m.ArticlesFetched,
		"source_failures":            m.SourceFailures,
		"extraction_by_method":       byMethod,
		"extraction_failures":        m.ExtractionFailures,
		"ai_requests":                m.AIRequests,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
