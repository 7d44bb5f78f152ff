package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lexmatter/infrastructure/config"
	"lexmatter/infrastructure/di"
	"lexmatter/interfaces/http/rest"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container
)

// init runs during cold start
func init() {
	start := time.Now()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(container)
	handler := router.Setup()

	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("Router did not produce a chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(start)),
	)
}

// Handler adapts API Gateway v2 requests onto the HTTP router. When the
// gateway JWT authorizer has already validated the caller, the verified
// claims are forwarded as trusted headers so the middleware skips a second
// validation.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if authorizer := req.RequestContext.Authorizer; authorizer != nil && authorizer.JWT != nil {
		if req.Headers == nil {
			req.Headers = map[string]string{}
		}
		claims := authorizer.JWT.Claims
		if sub, ok := claims["sub"]; ok && sub != "" {
			delete(req.Headers, "authorization")
			delete(req.Headers, "Authorization")
			req.Headers["X-API-Gateway-Authorized"] = "true"
			req.Headers["X-User-ID"] = sub
			if email, ok := claims["email"]; ok {
				req.Headers["X-User-Email"] = email
			}
			if roles, ok := claims["roles"]; ok {
				req.Headers["X-User-Roles"] = strings.Trim(roles, "[]")
			}
		}
	}

	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
