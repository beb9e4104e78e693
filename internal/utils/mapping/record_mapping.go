package mapping

import (
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	"github.com/vbfontes/fin_crm_app/internal/models"
)

// ToModelRecord converts a domain FinancialRecord to a model FinancialRecord
func ToModelRecord(d domain.FinancialRecord) models.FinancialRecord {
	return models.FinancialRecord{
		RecordID:        d.RecordID,
		OrganizationID:  d.OrganizationID,
		Description:     d.Description,
		Amount:          d.Amount,
		Nature:          models.Nature(d.Nature),
		CategoryID:      d.CategoryID,
		Direction:       models.Direction(d.Direction),
		Status:          models.RecordStatus(d.Status),
		RecognitionDate: d.RecognitionDate,
		SettlementDate:  d.SettlementDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecord converts a model FinancialRecord to a domain FinancialRecord
func ToDomainRecord(m models.FinancialRecord) domain.FinancialRecord {
	return domain.FinancialRecord{
		RecordID:        m.RecordID,
		OrganizationID:  m.OrganizationID,
		Description:     m.Description,
		Amount:          m.Amount,
		Nature:          domain.Nature(m.Nature),
		CategoryID:      m.CategoryID,
		Direction:       domain.Direction(m.Direction),
		Status:          domain.RecordStatus(m.Status),
		RecognitionDate: m.RecognitionDate,
		SettlementDate:  m.SettlementDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecordSlice converts a slice of model FinancialRecords to domain FinancialRecords
func ToDomainRecordSlice(ms []models.FinancialRecord) []domain.FinancialRecord {
	ds := make([]domain.FinancialRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecord(m)
	}
	return ds
}
