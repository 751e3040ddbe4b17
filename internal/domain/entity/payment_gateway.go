package entity

import "time"

// Tipos de pasarela de pago soportados.
const (
	GatewayStripe       = "stripe"
	GatewayPayPal       = "paypal"
	GatewayPayoneer     = "payoneer"
	GatewayLemonSqueezy = "lemonsqueezy"
	GatewayXoom         = "xoom"
	GatewayWise         = "wise"
)

// GatewayFields campos de configuración por tipo de pasarela. Los marcados como
// secretos nunca se devuelven completos.
var GatewayFields = map[string][]GatewayField{
	GatewayStripe: {
		{Key: "publishableKey"},
		{Key: "secretKey", Secret: true},
		{Key: "webhookSecret", Secret: true},
	},
	GatewayPayPal: {
		{Key: "clientId"},
		{Key: "clientSecret", Secret: true},
		{Key: "environment"},
	},
	GatewayPayoneer: {
		{Key: "apiKey", Secret: true},
		{Key: "programId"},
		{Key: "environment"},
	},
	GatewayLemonSqueezy: {
		{Key: "apiKey", Secret: true},
		{Key: "storeId"},
		{Key: "webhookSecret", Secret: true},
	},
	GatewayXoom: {
		{Key: "apiKey", Secret: true},
		{Key: "apiSecret", Secret: true},
		{Key: "partnerId"},
	},
	GatewayWise: {
		{Key: "apiToken", Secret: true},
		{Key: "profileId"},
		{Key: "environment"},
	},
}

// GatewayField describe una clave de configuración de la pasarela.
type GatewayField struct {
	Key    string
	Secret bool
}

// PaymentGateway configuración de una pasarela de pago del usuario (una por tipo).
type PaymentGateway struct {
	ID          string
	UserID      string
	GatewayType string
	IsActive    bool
	Config      map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsConfigured indica si la configuración tiene valor para todas las claves del tipo.
func (g *PaymentGateway) IsConfigured() bool {
	fields, ok := GatewayFields[g.GatewayType]
	if !ok || len(g.Config) == 0 {
		return false
	}
	for _, f := range fields {
		if g.Config[f.Key] == "" {
			return false
		}
	}
	return true
}

// IsUsable pasarela activa y completamente configurada.
func (g *PaymentGateway) IsUsable() bool {
	return g.IsActive && g.IsConfigured()
}
