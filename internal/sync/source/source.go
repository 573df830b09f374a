package source

import (
	"context"

	"github.com/gagangborneo/chatzwa-sub002/internal/sync/domain"
)

// Recognized source names
const (
	SourceDatabase  = "database"
	SourceWordPress = "wordpress"
	SourceDocuments = "documents"
	SourceAPI       = "api"
)

// Provider produces the documents for one logical data source.
// Implement this interface to plug a real connector (Prisma tables, WordPress
// REST API, file uploads) behind a source name; the synchronizer only sees
// documents.
type Provider interface {
	Name() string
	FetchDocuments(ctx context.Context) ([]domain.Document, error)
}

// Registry maps source names to providers
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry with the given providers
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// NewDefaultRegistry registers the built-in placeholder providers
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		&databaseProvider{},
		&wordpressProvider{},
		&documentsProvider{},
		&apiProvider{},
	)
}

// Fetch returns the documents for a source name. An unrecognized source yields
// an empty list, not an error.
func (r *Registry) Fetch(ctx context.Context, name string) ([]domain.Document, error) {
	provider, ok := r.providers[name]
	if !ok {
		return []domain.Document{}, nil
	}
	return provider.FetchDocuments(ctx)
}

// databaseProvider stands in for chatbot records stored in the product database
type databaseProvider struct{}

func (p *databaseProvider) Name() string { return SourceDatabase }

func (p *databaseProvider) FetchDocuments(ctx context.Context) ([]domain.Document, error) {
	return []domain.Document{
		{
			ID:       "chatbot_setup",
			Title:    "Chatbot Setup Guide",
			Content:  "Create a chatbot from the dashboard, pick a language model, then copy the embed snippet into your website. The widget picks up new settings within a minute.",
			Category: "guide",
			Metadata: map[string]interface{}{"table": "chatbots"},
		},
		{
			ID:       "billing_faq",
			Title:    "Billing FAQ",
			Content:  "Subscriptions renew monthly. Upgrades are prorated and downgrades apply from the next billing cycle. Invoices are available under Settings > Billing.",
			Category: "faq",
			Metadata: map[string]interface{}{"table": "faqs"},
		},
	}, nil
}

// wordpressProvider stands in for posts pulled through the WordPress plugin
type wordpressProvider struct{}

func (p *wordpressProvider) Name() string { return SourceWordPress }

func (p *wordpressProvider) FetchDocuments(ctx context.Context) ([]domain.Document, error) {
	return []domain.Document{
		{
			ID:       "wp_announcement",
			Title:    "WhatsApp Channel Now Available",
			Content:  "Connect your chatbot to WhatsApp Business in three steps: verify your number, scan the pairing code, and enable the channel from the integrations page.",
			Category: "blog",
			Metadata: map[string]interface{}{"post_type": "post", "author": "editorial"},
		},
		{
			ID:       "wp_plugin_howto",
			Title:    "Installing the WordPress Plugin",
			Content:  "Upload the plugin zip from the WordPress admin, activate it, then paste your site key from the dashboard. The floating chat bubble appears on every page.",
			Category: "blog",
			Metadata: map[string]interface{}{"post_type": "page", "author": "support"},
		},
		{
			ID:       "wp_shortcodes",
			Title:    "Widget Shortcodes",
			Content:  "Use the chatzwa shortcode to place the chat window inline instead of floating. Attributes control height, theme color and the initial greeting.",
			Category: "blog",
			Metadata: map[string]interface{}{"post_type": "page", "author": "support"},
		},
	}, nil
}

// documentsProvider stands in for files uploaded through the dashboard
type documentsProvider struct{}

func (p *documentsProvider) Name() string { return SourceDocuments }

func (p *documentsProvider) FetchDocuments(ctx context.Context) ([]domain.Document, error) {
	return []domain.Document{
		{
			ID:       "upload_product_sheet",
			Title:    "Product Sheet",
			Content:  "Chatzwa deploys AI chatbots across an embedded widget, WordPress and WhatsApp from a single dashboard, with shared knowledge-base synchronization.",
			Category: "upload",
			Metadata: map[string]interface{}{"filename": "product-sheet.pdf"},
		},
		{
			ID:       "upload_onboarding",
			Title:    "Customer Onboarding Checklist",
			Content:  "Invite teammates, import your FAQ, connect at least one channel and run a test conversation before going live.",
			Category: "upload",
			Metadata: map[string]interface{}{"filename": "onboarding.docx"},
		},
	}, nil
}

// apiProvider stands in for the public API reference pages
type apiProvider struct{}

func (p *apiProvider) Name() string { return SourceAPI }

func (p *apiProvider) FetchDocuments(ctx context.Context) ([]domain.Document, error) {
	return []domain.Document{
		{
			ID:       "api_auth",
			Title:    "API Authentication",
			Content:  "Authenticate with a bearer token created under Settings > API Keys. Tokens are scoped per workspace and can be revoked at any time.",
			Category: "api-docs",
			Metadata: map[string]interface{}{"endpoint": "/v1/auth"},
		},
		{
			ID:       "api_conversations",
			Title:    "Conversations Endpoint",
			Content:  "List, create and close conversations programmatically. Webhook events fire on every inbound and outbound message.",
			Category: "api-docs",
			Metadata: map[string]interface{}{"endpoint": "/v1/conversations"},
		},
	}, nil
}
