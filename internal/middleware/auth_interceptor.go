package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UserIDKeyType is a custom type for the user ID context key to avoid collisions.
type UserIDKeyType string

// UserRoleKeyType is a custom type for the user role context key.
type UserRoleKeyType string

// UserEmailKeyType is a custom type for the user email context key.
type UserEmailKeyType string

const (
	// UserIDKey stores the authenticated uid.
	UserIDKey UserIDKeyType = "authenticatedUserID"
	// UserRoleKey stores the role claim of the token.
	UserRoleKey UserRoleKeyType = "authenticatedUserRole"
	// UserEmailKey stores the email claim of the token, when present.
	UserEmailKey UserEmailKeyType = "authenticatedUserEmail"
)

// Claims defines the structure of the JWT claims expected from the token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserIDFromContext returns the authenticated uid, or "" for guests.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(UserIDKey).(string)
	return v
}

// RoleFromContext returns the token role claim, or RoleGuest.
func RoleFromContext(ctx context.Context) domain.UserRole {
	v, _ := ctx.Value(UserRoleKey).(string)
	return domain.UserRole(v)
}

// EmailFromContext returns the token email claim, if any.
func EmailFromContext(ctx context.Context) string {
	v, _ := ctx.Value(UserEmailKey).(string)
	return v
}

// Authenticator validates HS256 bearer tokens issued by the identity provider.
// Public methods accept anonymous callers but still read a token when one
// is sent, so feeds can apply the caller's role.
type Authenticator struct {
	secret        []byte
	log           *logger.Logger
	publicMethods map[string]bool
	requiredRoles map[string][]string
}

func NewAuthenticator(jwtSecret string, log *logger.Logger, publicMethods map[string]bool, requiredRoles map[string][]string) *Authenticator {
	return &Authenticator{
		secret:        []byte(jwtSecret),
		log:           log.Named("Auth"),
		publicMethods: publicMethods,
		requiredRoles: requiredRoles,
	}
}

// UnaryInterceptor authenticates unary calls.
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		newCtx, err := a.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(newCtx, req)
	}
}

// StreamInterceptor authenticates server streams.
func (a *Authenticator) StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		newCtx, err := a.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: newCtx})
	}
}

type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context {
	return s.ctx
}

func (a *Authenticator) authenticate(ctx context.Context, method string) (context.Context, error) {
	public := a.publicMethods[method]
	tokenString, err := bearerToken(ctx)
	if err != nil {
		if public && errors.Is(err, errNoToken) {
			a.log.Debug("Public method called anonymously", zap.String("method", method))
			return ctx, nil
		}
		a.log.Warn("Missing or malformed authorization", zap.String("method", method), zap.Error(err))
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	claims, err := a.ParseToken(tokenString)
	if err != nil {
		a.log.Warn("Token parsing/validation failed", zap.String("method", method), zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, status.Errorf(codes.Unauthenticated, "token has expired")
		}
		return nil, status.Errorf(codes.Unauthenticated, "token is invalid: %v", err)
	}

	if roles, ok := a.requiredRoles[method]; ok && !hasRole(claims.Role, roles) {
		a.log.Warn("User does not have required role",
			zap.String("method", method),
			zap.String("user_id", claims.UserID),
			zap.String("user_role", claims.Role),
			zap.Strings("required_roles", roles))
		return nil, status.Errorf(codes.PermissionDenied, "user role '%s' not authorized for this action", claims.Role)
	}

	newCtx := context.WithValue(ctx, UserIDKey, claims.UserID)
	newCtx = context.WithValue(newCtx, UserRoleKey, claims.Role)
	if claims.Email != "" {
		newCtx = context.WithValue(newCtx, UserEmailKey, claims.Email)
	}
	a.log.Debug("User authenticated", zap.String("method", method), zap.String("user_id", claims.UserID), zap.String("role", claims.Role))
	return newCtx, nil
}

// ParseToken validates tokenString and returns its claims.
func (a *Authenticator) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.UserID == "" {
		return nil, errors.New("user_id claim is missing")
	}
	return claims, nil
}

var errNoToken = errors.New("authorization token is not provided")

func bearerToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errNoToken
	}
	headers := md.Get("authorization")
	if len(headers) == 0 {
		return "", errNoToken
	}
	parts := strings.Fields(headers[0])
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("authorization token format is invalid, expected 'Bearer <token>'")
	}
	return parts[1], nil
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
