package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"fintrack/internal/client"
	"fintrack/internal/dto"
	"fintrack/internal/importer"
	"fintrack/internal/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "fintrack dev\n", out.String())
}

func TestExportServerEnv_ExistingWins(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Cleanup(func() { os.Unsetenv("FINTRACK_EXPORT_TEST") })

	exportServerEnv(map[string]string{"server_port": "7000", "fintrack_export_test": "sqlite"})

	assert.Equal(t, "9000", os.Getenv("SERVER_PORT"))
	assert.Equal(t, "sqlite", os.Getenv("FINTRACK_EXPORT_TEST"))
}

func TestPrintMigrationStatus(t *testing.T) {
	tests := []struct {
		name    string
		version uint
		dirty   bool
		err     error
		want    string
		wantErr bool
	}{
		{name: "nothing applied", err: migrate.ErrNilVersion, want: "no migrations applied\n"},
		{name: "clean", version: 3, want: "version 3\n"},
		{name: "dirty", version: 2, dirty: true, want: "version 2 (dirty)\n"},
		{name: "error", err: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			var out bytes.Buffer
			cmd.SetOut(&out)

			err := printMigrationStatus(cmd, tt.version, tt.dirty, tt.err)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestAssignCategories(t *testing.T) {
	food := models.Category{ID: uuid.New(), Name: "Food"}
	rent := models.Category{ID: uuid.New(), Name: "Rent"}
	categories := []models.Category{food, rent}
	entries := []importer.Entry{
		{Request: dto.TransactionRequest{Description: "Coffee"}, SuggestedCategory: "food"},
		{Request: dto.TransactionRequest{Description: "Check"}},
		{Request: dto.TransactionRequest{Description: "Gym"}, SuggestedCategory: "Fitness"},
	}

	t.Run("suggestions", func(t *testing.T) {
		got, err := assignCategories(entries, categories, "")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, food.ID.String(), got[0].Category)
		assert.Empty(t, got[1].Category)
		assert.Empty(t, got[2].Category)
	})

	t.Run("forced", func(t *testing.T) {
		got, err := assignCategories(entries, categories, "RENT")
		require.NoError(t, err)
		for _, req := range got {
			assert.Equal(t, rent.ID.String(), req.Category)
		}
	})

	t.Run("forced unknown", func(t *testing.T) {
		_, err := assignCategories(entries, categories, "Travel")
		assert.ErrorContains(t, err, `unknown category "Travel"`)
	})
}

func TestToModelCategories_SkipsBadIDs(t *testing.T) {
	id := uuid.New()
	got := toModelCategories([]dto.CategoryResponse{
		{ID: id.String(), Name: "Food", Color: "#34D399"},
		{ID: "not-a-uuid", Name: "Broken"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "Food", got[0].Name)
}

type fakeCreator struct {
	errs  map[string]error
	calls int
}

func (f *fakeCreator) CreateTransaction(_ context.Context, req dto.TransactionRequest) (*dto.TransactionResponse, error) {
	f.calls++
	if err := f.errs[req.ExternalID]; err != nil {
		return nil, err
	}
	return &dto.TransactionResponse{Description: req.Description}, nil
}

func TestPostTransactions(t *testing.T) {
	creator := &fakeCreator{errs: map[string]error{
		"dup": &client.APIError{Kind: client.KindValidation, Status: http.StatusConflict, Code: "TRANSACTION_007"},
		"bad": &client.APIError{Kind: client.KindServer, Status: http.StatusInternalServerError},
	}}
	requests := []dto.TransactionRequest{
		{ExternalID: "a", Amount: decimal.NewFromInt(1)},
		{ExternalID: "dup", Amount: decimal.NewFromInt(2)},
		{ExternalID: "bad", Amount: decimal.NewFromInt(3)},
		{ExternalID: "b", Amount: decimal.NewFromInt(4)},
	}

	stats := postTransactions(context.Background(), creator, requests, io.Discard, slog.Default())

	assert.Equal(t, importStats{Created: 2, Duplicates: 1, Failed: 1}, stats)
	assert.Equal(t, 4, creator.calls)
}

func TestPostTransactions_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	creator := &fakeCreator{}

	stats := postTransactions(ctx, creator, make([]dto.TransactionRequest, 3), io.Discard, slog.Default())

	assert.Equal(t, 3, stats.Failed)
	assert.Zero(t, creator.calls)
}

const statement = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>POS PURCHASE STARBUCKS STORE 1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestImportCmd_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jan.ofx")
	require.NoError(t, os.WriteFile(path, []byte(statement), 0o600))

	cmd := importCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path, "--dry-run"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "1 transactions in 1 account(s), 0 duplicate lines dropped")
	assert.Contains(t, out.String(), "2024-01-15")
	assert.Contains(t, out.String(), "25.50")
	assert.Contains(t, out.String(), "Food")
}

func TestImportCmd_MissingFile(t *testing.T) {
	cmd := importCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.ofx")})

	assert.ErrorContains(t, cmd.ExecuteContext(context.Background()), "failed to open statement")
}

func TestReportCmd(t *testing.T) {
	var authHeaders []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/preferences":
			_, _ = w.Write([]byte(`{"currency":"EUR"}`))
		case "/api/analytics/overview":
			assert.Equal(t, "This month", r.URL.Query().Get("range"))
			_, _ = w.Write([]byte(`{"monthly":[],"recent":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	viper.Set("api.url", srv.URL)
	viper.Set("api.token", "token-123")
	t.Cleanup(viper.Reset)

	cmd := reportCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--range", "This month"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "No transactions in this range")
	assert.Equal(t, []string{"Bearer token-123", "Bearer token-123"}, authHeaders)
}

func TestAPIClient_RequiresCredentials(t *testing.T) {
	viper.Set("api.url", "http://127.0.0.1:1")
	t.Cleanup(viper.Reset)

	_, err := apiClient(context.Background())

	assert.ErrorContains(t, err, "no credentials")
}
