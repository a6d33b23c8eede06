package gemini

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"

	"google.golang.org/genai"
)

const (
	defaultSampleRate = 24000
	pcmChannels       = 1
	pcmBitsPerSample  = 16
)

// SpeechSynthesizer は Gemini TTS でテキストを WAV 音声にします
type SpeechSynthesizer struct {
	client *Client
	model  string
	voice  string
}

func NewSpeechSynthesizer(client *Client, model, voice string) *SpeechSynthesizer {
	return &SpeechSynthesizer{client: client, model: model, voice: voice}
}

// Synthesize は WAV 形式の音声データを返します
func (s *SpeechSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	logger := middleware.GetLogger(ctx)

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: nothing to synthesize", model.ErrGenerationFailed)
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	}
	resp, err := s.client.generate(ctx, "gemini_tts", s.model, genai.Text(text), cfg)
	if err != nil {
		logger.Error("Speech synthesis request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	blob := firstInlineData(resp)
	if blob == nil {
		return nil, fmt.Errorf("%w: speech response contained no audio", model.ErrGenerationFailed)
	}
	if strings.HasPrefix(blob.MIMEType, "audio/wav") || strings.HasPrefix(blob.MIMEType, "audio/x-wav") {
		return blob.Data, nil
	}

	rate := sampleRateFromMIME(blob.MIMEType)
	logger.Debug("Speech synthesized", "mime_type", blob.MIMEType, "sample_rate", rate, "bytes", len(blob.Data))
	return encodeWAV(blob.Data, rate, pcmChannels, pcmBitsPerSample), nil
}

// sampleRateFromMIME は "audio/L16;codec=pcm;rate=24000" のような MIME からレートを取り出します
func sampleRateFromMIME(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(k, "rate") {
			continue
		}
		if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
			return rate
		}
	}
	return defaultSampleRate
}

// encodeWAV はリトルエンディアンの PCM に 44 バイトの RIFF ヘッダを付けます
func encodeWAV(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
