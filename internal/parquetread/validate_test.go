package parquetread

import (
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/lfpbill/internal/model"
)

func TestValidateSchema(t *testing.T) {
	if err := ValidateSchema(parquet.SchemaOf(model.ServiceRecordRow{})); err != nil {
		t.Errorf("export schema rejected: %v", err)
	}

	type partial struct {
		DateOfService string `parquet:"date_of_service"`
		PHN           string `parquet:"PHN"`
	}
	err := ValidateSchema(parquet.SchemaOf(partial{}))
	if err == nil {
		t.Fatal("expected error for partial schema")
	}
	if !strings.Contains(err.Error(), "billing_item") || strings.Contains(err.Error(), "date_of_service") {
		t.Errorf("unexpected error: %v", err)
	}
}
