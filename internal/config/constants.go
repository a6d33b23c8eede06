// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "RealEnglish"
	AppVersion = "0.4.0"
)

// デフォルト設定値
const (
	DefaultServerPort                = ":8080"
	DefaultLogLevel                  = "info"
	DefaultAuthEnabled               = true
	DefaultAccessTokenTTL            = 24 * time.Hour
	DefaultStoriesRequiredForLevelUp = 1
	DefaultFeedLimit                 = 10
	DefaultNextTrailPerMinute        = 20
)

// 外部サービス
const (
	DefaultStoryModel = "gemini-2.5-flash"
	DefaultTTSModel   = "gemini-2.5-pro-preview-tts"
	DefaultVoice      = "Leda"
	DefaultOBSBucket  = "real-english-assets"
	DefaultOBSRegion  = "et-global-1"
)
