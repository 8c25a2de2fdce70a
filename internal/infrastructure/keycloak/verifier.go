// Package keycloak implementa el puerto TokenVerifier contra un realm de Keycloak.
// El IdP es una caja negra que emite tokens RS256; aquí solo se verifica la firma
// con la llave pública del realm y se leen claims, nada más.
package keycloak

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/url"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tu-usuario/inventory-ops/internal/application/auth"
	"github.com/tu-usuario/inventory-ops/pkg/config"
)

var _ auth.TokenVerifier = (*Verifier)(nil)

// accessTokenClaims son los claims que usamos de un access token de Keycloak:
// preferred_username, sid y los roles de realm y de cliente.
type accessTokenClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	SessionID         string `json:"sid"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	ResourceAccess map[string]struct {
		Roles []string `json:"roles"`
	} `json:"resource_access"`
}

// Verifier valida access tokens del realm configurado.
type Verifier struct {
	issuer             string
	clientID           string
	postLogoutRedirect string
	publicKey          *rsa.PublicKey
}

// New construye el verificador con la llave pública PEM del realm.
func New(cfg config.KeycloakConfig) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parsear llave pública del realm: %w", err)
	}
	return &Verifier{
		issuer:             cfg.Issuer,
		clientID:           cfg.ClientID,
		postLogoutRedirect: cfg.PostLogoutRedirect,
		publicKey:          key,
	}, nil
}

// Verify valida firma, expiración e issuer del token y devuelve los claims que la
// aplicación consume. Los roles de realm y del cliente propio se entregan juntos,
// sin colapsar: esa decisión es del proveedor de autenticación.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*auth.TokenClaims, error) {
	var claims accessTokenClaims
	token, err := jwt.ParseWithClaims(rawToken, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return v.publicKey, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("verificar token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token inválido")
	}

	roles := append([]string{}, claims.RealmAccess.Roles...)
	if client, ok := claims.ResourceAccess[v.clientID]; ok {
		roles = append(roles, client.Roles...)
	}

	return &auth.TokenClaims{
		Username:  claims.PreferredUsername,
		Roles:     roles,
		SessionID: claims.SessionID,
	}, nil
}

// EndSessionURL construye la URL de logout (end-session) del realm. Es función pura
// del issuer configurado y del session id del token: nada se inventa con literales.
func (v *Verifier) EndSessionURL(sessionID string) string {
	u, err := url.Parse(v.issuer)
	if err != nil {
		return ""
	}
	u = u.JoinPath("protocol", "openid-connect", "logout")

	q := url.Values{}
	q.Set("client_id", v.clientID)
	if sessionID != "" {
		q.Set("session_state", sessionID)
	}
	if v.postLogoutRedirect != "" {
		q.Set("post_logout_redirect_uri", v.postLogoutRedirect)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
