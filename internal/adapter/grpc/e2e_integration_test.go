//go:build integration

package grpc_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcadapter "github.com/simaogato/savingsplan-backend/internal/adapter/grpc"
	"github.com/simaogato/savingsplan-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// These tests run against a live server (cmd/server) backed by Postgres.

var (
	db         *postgres.DB
	grpcConn   *grpc.ClientConn
	grpcClient *grpcadapter.PlannerServiceClient
)

func TestMain(m *testing.M) {
	var err error

	// 1. Connect to Database
	db, err = postgres.NewDB(getDBConnectionString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	// 2. Connect to gRPC Server
	grpcConn, err = grpc.NewClient(getGRPCAddress(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}
	grpcClient = grpcadapter.NewPlannerServiceClient(grpcConn)

	code := m.Run()

	grpcConn.Close()
	db.Close()
	os.Exit(code)
}

// getAuthContext returns a context with authorization metadata
func getAuthContext() context.Context {
	token := os.Getenv("API_TOKEN")
	if token == "" {
		token = "dev-token"
	}
	md := metadata.New(map[string]string{"authorization": token})
	return metadata.NewOutgoingContext(context.Background(), md)
}

// getDBConnectionString returns the database connection string from environment or defaults
func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		get("DB_HOST", "localhost"), get("DB_PORT", "5432"), get("DB_USER", "postgres"),
		get("DB_PASSWORD", "postgres"), get("DB_NAME", "savingsplan"))
}

// getGRPCAddress returns the gRPC server address from environment or defaults
func getGRPCAddress() string {
	if addr := os.Getenv("GRPC_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:8080"
}

func TestEndToEnd_SeededTableIsServed(t *testing.T) {
	ctx := getAuthContext()

	// The server seeds the active table on startup
	stored, err := postgres.NewTaxTableRepository(db).GetByYear(context.Background(), domain.DefaultTaxYear)
	require.NoError(t, err)
	require.NoError(t, stored.Validate())

	resp, err := grpcClient.ListTaxYears(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, float64(domain.DefaultTaxYear), resp.GetFields()["active_tax_year"].GetNumberValue())
}

func TestEndToEnd_BuildPlan(t *testing.T) {
	ctx := getAuthContext()

	tests := []struct {
		name       string
		income     string
		filing     string
		age        float64
		rate       float64
		iraLabel   string
		employerUp string
	}{
		{name: "Young married saver", income: "75000", filing: "mfj", age: 30, rate: 12, iraLabel: "ROTH", employerUp: "NONE"},
		{name: "High earner over fifty", income: "260000", filing: "single", age: 52, rate: 35, iraLabel: "BACKDOOR_ROTH", employerUp: "STANDARD"},
		{name: "Super catch-up window", income: "90000", filing: "single", age: 61, rate: 22, iraLabel: "ROTH", employerUp: "SUPER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := structpb.NewStruct(map[string]interface{}{
				"income":        tt.income,
				"filing_status": tt.filing,
				"age":           tt.age,
			})
			require.NoError(t, err)

			resp, err := grpcClient.BuildPlan(ctx, req)
			require.NoError(t, err)

			fields := resp.GetFields()
			assert.Equal(t, tt.rate, fields["marginal_rate"].GetNumberValue())
			limits := fields["limits"].GetStructValue().GetFields()
			assert.Equal(t, tt.employerUp, limits["employer_catch_up"].GetStringValue())

			recs := fields["recommendations"].GetListValue().GetValues()
			require.Len(t, recs, 3)
			assert.Equal(t, tt.iraLabel, recs[2].GetStructValue().GetFields()["label"].GetStringValue())
		})
	}
}

func TestEndToEnd_Unauthenticated(t *testing.T) {
	_, err := grpcClient.ListTaxYears(context.Background(), &structpb.Struct{})

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestEndToEnd_HealthIsPublic(t *testing.T) {
	resp, err := healthpb.NewHealthClient(grpcConn).Check(context.Background(), &healthpb.HealthCheckRequest{
		Service: grpcadapter.ServiceName,
	})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
