package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const secret = "unit-secret"

func signed(t *testing.T, claims Claims, key string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func validClaims(uid, role string) Claims {
	return Claims{
		UserID:           uid,
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
}

func incoming(token string) context.Context {
	if token == "" {
		return context.Background()
	}
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
}

func newAuth() *Authenticator {
	return NewAuthenticator(secret, logger.NewNop(),
		map[string]bool{"/svc/Public": true},
		map[string][]string{"/svc/Staff": {"admin", "moderator"}})
}

func call(a *Authenticator, ctx context.Context, method string) (context.Context, error) {
	var seen context.Context
	_, err := a.UnaryInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = ctx
		return nil, nil
	})
	return seen, err
}

func TestAuth_PublicMethodAllowsAnonymous(t *testing.T) {
	ctx, err := call(newAuth(), incoming(""), "/svc/Public")
	require.NoError(t, err)
	assert.Empty(t, UserIDFromContext(ctx))
	assert.Equal(t, domain.RoleGuest, RoleFromContext(ctx))
}

func TestAuth_PublicMethodReadsOptionalToken(t *testing.T) {
	ctx, err := call(newAuth(), incoming(signed(t, validClaims("u1", "buyer"), secret)), "/svc/Public")
	require.NoError(t, err)
	assert.Equal(t, "u1", UserIDFromContext(ctx))
	assert.Equal(t, domain.RoleBuyer, RoleFromContext(ctx))
}

func TestAuth_PrivateMethodRequiresToken(t *testing.T) {
	_, err := call(newAuth(), incoming(""), "/svc/Private")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	expired := validClaims("u1", "seller")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := []struct {
		name  string
		token string
	}{
		{"wrong key", signed(t, validClaims("u1", "seller"), "other")},
		{"expired", signed(t, expired, secret)},
		{"missing uid", signed(t, validClaims("", "seller"), secret)},
		{"garbage", "abc.def.ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(newAuth(), incoming(tt.token), "/svc/Private")
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
		})
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Token abc"))
	_, err := call(newAuth(), ctx, "/svc/Public")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestAuth_RequiredRoles(t *testing.T) {
	_, err := call(newAuth(), incoming(signed(t, validClaims("u1", "seller"), secret)), "/svc/Staff")
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	ctx, err := call(newAuth(), incoming(signed(t, validClaims("m1", "moderator"), secret)), "/svc/Staff")
	require.NoError(t, err)
	assert.Equal(t, "m1", UserIDFromContext(ctx))
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeStream) Context() context.Context { return f.ctx }

func TestAuth_StreamCarriesIdentity(t *testing.T) {
	a := newAuth()
	claims := validClaims("u2", "wholesaler")
	claims.Email = "u2@example.com"
	ss := &fakeStream{ctx: incoming(signed(t, claims, secret))}

	var seen context.Context
	err := a.StreamInterceptor()(nil, ss, &grpc.StreamServerInfo{FullMethod: "/svc/Public"}, func(srv interface{}, stream grpc.ServerStream) error {
		seen = stream.Context()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", UserIDFromContext(seen))
	assert.Equal(t, "u2@example.com", EmailFromContext(seen))
}
