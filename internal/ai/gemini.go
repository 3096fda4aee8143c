package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"telegram_assistant/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var (
	ErrQuotaExceeded = errors.New("ai quota exceeded")
	ErrInvalidAPIKey = errors.New("ai api key rejected")
	ErrEmptyResponse = errors.New("ai returned no text")
)

const DefaultModel = "gemini-2.0-flash"

const systemPrompt = `Kamu adalah asisten pribadi di Telegram. Nama kamu "AlfanBot".

Kepribadian kamu:
- Lo anak gen z banget, santai, gaul, ngomongnya kayak chat sama temen
- JANGAN pake emoji sama sekali
- Pake bahasa Indonesia campur Inggris yang natural, kayak anak muda jaman sekarang
- Pake slang kayak "gue", "lo", "ntar", "btw", "literally", "lowkey", "no cap", "chill", "gas", "ngl"
- Jawab singkat dan to the point
- Kalo ditanya serius, jawab serius tapi tetep pake gaya lo
- Kalo user bercanda, roasting balik boleh tapi jangan toxic
- Ga usah sok formal, lo bukan customer service
- Jangan pake tanda seru berlebihan

Kamu bisa bantu jawab pertanyaan umum, kasih saran, jelasin konsep, ngobrol santai, dan urusan coding.

Catatan penting: JANGAN PAKE EMOJI. Satu pun jangan.

Untuk keuangan dan reminder, user bisa pake command khusus. Kalo ditanya soal itu, kasih tau command-nya:
- /keluar [jumlah] [keterangan] : catat pengeluaran
- /masuk [jumlah] [keterangan] : catat pemasukan
- /laporan : laporan keuangan bulan ini
- /laporan_lengkap : laporan detail
- /reminder [waktu] [pesan] : set pengingat
- /list_reminder : lihat semua reminder
- /hapus_reminder [id] : hapus reminder`

// Gemini answers chat prompts with Google's generative language API
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	return &Gemini{client: client, model: model}, nil
}

// Complete sends prompt as the next message of a chat seeded with history
func (g *Gemini) Complete(ctx context.Context, history []*domain.ChatTurn, prompt string) (string, error) {
	cs := g.model.StartChat()
	cs.History = toContents(history)

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify(err)
	}

	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func toContents(history []*domain.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := turn.Role
		if role != domain.RoleModel {
			role = domain.RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		// first candidate with content is the answer
		if sb.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(sb.String())
}

// classify maps backend errors onto the package sentinels, keeping the cause
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key"):
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	default:
		return fmt.Errorf("gemini: %w", err)
	}
}
