package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/PabloGalante/reviewsense-agent/internal/adapters/http"
	"github.com/PabloGalante/reviewsense-agent/internal/adapters/llm"
	"github.com/PabloGalante/reviewsense-agent/internal/adapters/messaging"
	"github.com/PabloGalante/reviewsense-agent/internal/adapters/scraper"
	firestorestore "github.com/PabloGalante/reviewsense-agent/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/reviewsense-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/reviewsense-agent/internal/app/approval"
	"github.com/PabloGalante/reviewsense-agent/internal/app/ingest"
	"github.com/PabloGalante/reviewsense-agent/internal/app/remind"
	"github.com/PabloGalante/reviewsense-agent/internal/config"
	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// LLM: mock or Gemini by config (useful for dev)
	var (
		classifier domain.IntentClassifier
		reviser    domain.ResponseReviser
		analyst    domain.ReviewAnalyst
		advisor    domain.Advisor
	)

	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		mock := llm.NewMockLLM()
		classifier, reviser, analyst, advisor = mock, mock, mock, mock
	} else {
		log.Println("[LLM] Using Gemini LLM client")
		gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			ProjectID: cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			APIKey:    cfg.GeminiAPIKey,
			ModelName: cfg.ModelName,
		})
		if err != nil {
			log.Fatalf("error initializing Gemini LLM client: %v", err)
		}
		classifier, reviser, analyst, advisor = gemini, gemini, gemini, gemini
	}

	// Storage: Firestore or Memory
	var (
		sessionStore  domain.SessionStore
		conversations domain.ConversationStore
		archive       domain.ReviewArchive
	)

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}

		// 1 store, implements both interfaces
		sessionStore = fsStore
		archive = fsStore
		conversations = memstore.NewConversationStore()

	default:
		log.Println("[STORE] Using in-memory storage")
		sessionStore = memstore.NewSessionStore()
		archive = memstore.NewReviewArchive()
		conversations = memstore.NewConversationStore()
	}

	// Messaging: Twilio or mock
	var messenger domain.Messenger
	if cfg.MessagingBackend == "twilio" {
		log.Println("[MSG] Using Twilio WhatsApp messenger")
		tw, err := messaging.NewTwilioMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		if err != nil {
			log.Fatalf("error initializing Twilio messenger: %v", err)
		}
		messenger = tw
	} else {
		log.Println("[MSG] Using mock messenger")
		messenger = messaging.NewMockMessenger()
	}

	// Review source: live browser or fixture
	var source domain.ReviewSource
	if cfg.ScraperBackend == "rod" {
		log.Println("[SCRAPE] Using headless-browser scraper")
		source = scraper.NewMapsScraper(true)
	} else {
		log.Println("[SCRAPE] Using fixture review source")
		source = scraper.NewFixtureSource()
	}

	templates, err := config.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("error loading message templates: %v", err)
	}

	collector := ingest.NewCollector(source, analyst)
	coordinator := ingest.NewCoordinator(sessionStore, archive, cfg.RatingThreshold)

	svc := approval.NewService(approval.Deps{
		Store:         sessionStore,
		Conversations: conversations,
		Classifier:    classifier,
		Reviser:       reviser,
		Advisor:       advisor,
		Messenger:     messenger,
		Collector:     collector,
		Coordinator:   coordinator,
		Archive:       archive,
		Templates:     templates,
		Reminder:      remind.Policy{IdleAfter: cfg.IdleReminderAfter},
		Restaurant:    cfg.RestaurantName,
		NumReviews:    cfg.NumReviews,
	})

	handler := httpadapter.NewServer(svc)

	addr := ":" + cfg.Port
	log.Println("ReviewSense API listening on port:", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
