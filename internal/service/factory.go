package service

import (
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/llm"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/alert"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/mail"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/news"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/triage"
)

// Deps are the collaborators shared by all services. LLM may be nil.
type Deps struct {
	Stores                 *store.Stores
	LLM                    llm.Client
	News                   news.Client
	Sender                 mail.Sender
	Pipeline               *triage.Pipeline
	NewsOptions            NewsOptions
	DefaultDurationMinutes int
}

// Services are built once; the ingestion service keeps the last-ingested status in memory.
type Services struct {
	news       NewsService
	assistant  Assistant
	threats    ThreatService
	recipients RecipientService
	alerts     AlertService
	ingestion  IngestionService
}

func NewServices(deps Deps) *Services {
	var generator alert.TextGenerator
	if deps.LLM != nil {
		generator = alert.NewLLMGenerator(deps.LLM)
	} else {
		generator = alert.NewTemplateGenerator()
	}

	assistant := NewAssistant(deps.LLM)
	threats := NewThreatService(deps.Stores.Threats())
	recipients := NewRecipientService(deps.Stores.Recipients())
	alerts := NewAlertService(threats, recipients, generator, deps.Sender)

	return &Services{
		news:       NewNewsService(deps.News, deps.Pipeline, deps.NewsOptions),
		assistant:  assistant,
		threats:    threats,
		recipients: recipients,
		alerts:     alerts,
		ingestion:  NewIngestionService(assistant, deps.Stores.Threats(), alerts, deps.DefaultDurationMinutes),
	}
}

func (s *Services) News() NewsService {
	return s.news
}

func (s *Services) Assistant() Assistant {
	return s.assistant
}

func (s *Services) Threats() ThreatService {
	return s.threats
}

func (s *Services) Recipients() RecipientService {
	return s.recipients
}

func (s *Services) Alerts() AlertService {
	return s.alerts
}

func (s *Services) Ingestion() IngestionService {
	return s.ingestion
}
