package constants

import "time"

var CacheTTL = struct {
	TitleSearch time.Duration
	Ratings     time.Duration
	UserRatings time.Duration
}{
	TitleSearch: 30 * time.Minute, // 검색 결과
	Ratings:     6 * time.Hour,    // 평점은 자주 바뀌지 않음
	UserRatings: 1 * time.Hour,    // 투표 수
}

var SessionConfig = struct {
	TTL       time.Duration
	KeyPrefix string
}{
	TTL:       10 * time.Minute, // 선택 대기 세션 만료 (대화 포기)
	KeyPrefix: "media:session:",
}

var WebSocketConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
	HandshakeTimeout     time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
	HandshakeTimeout:     10 * time.Second,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var InputLimits = struct {
	MaxQueryLength     int
	MaxCandidates      int
	MaxSelectionLength int
}{
	MaxQueryLength:     200,
	MaxCandidates:      10,
	MaxSelectionLength: 16,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,                // 3회 연속 실패 시 Circuit OPEN
	ResetTimeout:     30 * time.Second, // 재시도 대기 시간
}

var APIConfig = struct {
	IMDbBaseURL    string
	IMDbTimeout    time.Duration
	IMDbTitleURL   string
	IrisTimeout    time.Duration
	MaxErrorBodyKB int
}{
	IMDbBaseURL:    "https://imdb-api.com/en/API",
	IMDbTimeout:    10 * time.Second,
	IMDbTitleURL:   "https://imdb.com/title/%s",
	IrisTimeout:    10 * time.Second,
	MaxErrorBodyKB: 4,
}

var BotConfig = struct {
	HandleTimeout         time.Duration
	ShutdownTimeout       time.Duration
	BuildTimeout          time.Duration
	MaxConcurrentMessages int
}{
	HandleTimeout:         30 * time.Second,
	ShutdownTimeout:       10 * time.Second,
	BuildTimeout:          30 * time.Second,
	MaxConcurrentMessages: 8,
}
