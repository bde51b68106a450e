package main

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"gocatalog/config"
	"gocatalog/internal/pkg/basicauth"
	"gocatalog/internal/pkg/logger"
)

// errUnauthorized faz o API Gateway responder 401.
var errUnauthorized = errors.New("Unauthorized")

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel).With(map[string]interface{}{"service": "basic-authorizer"})
	if cfg.AuthLoginName == "" {
		log.Warn("AUTH_LOGIN_NAME vazio; todas as requisições serão negadas.", nil)
	}

	creds := basicauth.Credentials{Login: cfg.AuthLoginName, Password: cfg.AuthPassword}
	lambda.Start(func(ctx context.Context, req events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
		return authorize(creds, req, log)
	})
}

// authorize devolve a política IAM para o método pedido. Cabeçalho ausente
// vira erro (401); credenciais erradas viram Deny (403).
func authorize(creds basicauth.Credentials, req events.APIGatewayCustomAuthorizerRequest, log logger.Logger) (events.APIGatewayCustomAuthorizerResponse, error) {
	switch creds.Check(req.AuthorizationToken) {
	case basicauth.Missing:
		log.Debug("Cabeçalho Authorization ausente.", map[string]interface{}{"method_arn": req.MethodArn})
		return events.APIGatewayCustomAuthorizerResponse{}, errUnauthorized
	case basicauth.Allowed:
		return policy(creds.Login, "Allow", req.MethodArn, 200), nil
	default:
		login, _, _ := basicauth.Parse(req.AuthorizationToken)
		log.Warn("Credenciais recusadas.", map[string]interface{}{"login": login, "method_arn": req.MethodArn})
		return policy(login, "Deny", req.MethodArn, 403), nil
	}
}

func policy(principal, effect, resource string, statusCode int) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: principal,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   effect,
					Resource: []string{resource},
				},
			},
		},
		Context: map[string]interface{}{"statusCode": statusCode},
	}
}
