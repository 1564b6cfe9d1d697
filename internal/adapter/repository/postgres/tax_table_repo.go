package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// Phase-out account types as stored in phaseout_ranges.account_type
const (
	phaseoutRothIRA        = "ROTH_IRA"
	phaseoutTraditionalIRA = "TRADITIONAL_IRA"
)

// taxTableRepository implements domain.TaxTableRepository
type taxTableRepository struct {
	db *DB
}

// NewTaxTableRepository creates a new tax table repository
func NewTaxTableRepository(db *DB) domain.TaxTableRepository {
	return &taxTableRepository{db: db}
}

// GetByYear retrieves the full reference table for a tax year
func (r *taxTableRepository) GetByYear(ctx context.Context, year int) (*domain.TaxTable, error) {
	query := `
		SELECT hsa_self_only, hsa_family, hsa_catch_up,
		       employer_plan, employer_catch_up, employer_super_catch_up,
		       ira, ira_catch_up, retirement_age, expected_return
		FROM tax_tables
		WHERE tax_year = $1
	`

	var limits [8]string
	var expectedReturnStr string
	table := &domain.TaxTable{
		TaxYear:             year,
		Brackets:            make(map[domain.FilingStatus][]domain.Bracket),
		RothPhaseout:        make(map[domain.FilingStatus]domain.PhaseoutRange),
		TraditionalPhaseout: make(map[domain.FilingStatus]domain.PhaseoutRange),
	}

	err := r.db.QueryRowContext(ctx, query, year).Scan(
		&limits[0], &limits[1], &limits[2],
		&limits[3], &limits[4], &limits[5],
		&limits[6], &limits[7],
		&table.RetirementAge,
		&expectedReturnStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tax year %d: %w", year, domain.ErrTaxTableNotFound)
		}
		return nil, fmt.Errorf("failed to get tax table: %w", err)
	}

	// Parse NUMERIC columns
	parsed := make([]decimal.Decimal, len(limits))
	for i, s := range limits {
		parsed[i], err = decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse contribution limit: %w", err)
		}
	}
	table.Limits = domain.ContributionConstants{
		HSASelfOnly:          parsed[0],
		HSAFamily:            parsed[1],
		HSACatchUp:           parsed[2],
		EmployerPlan:         parsed[3],
		EmployerCatchUp:      parsed[4],
		EmployerSuperCatchUp: parsed[5],
		IRA:                  parsed[6],
		IRACatchUp:           parsed[7],
	}
	if table.ExpectedReturn, err = decimal.NewFromString(expectedReturnStr); err != nil {
		return nil, fmt.Errorf("failed to parse expected_return: %w", err)
	}

	if err := r.loadBrackets(ctx, table); err != nil {
		return nil, err
	}
	if err := r.loadPhaseouts(ctx, table); err != nil {
		return nil, err
	}

	return table, nil
}

func (r *taxTableRepository) loadBrackets(ctx context.Context, table *domain.TaxTable) error {
	query := `
		SELECT filing_status, min_income, max_income, rate
		FROM tax_brackets
		WHERE tax_year = $1
		ORDER BY filing_status, position
	`

	rows, err := r.db.QueryContext(ctx, query, table.TaxYear)
	if err != nil {
		return fmt.Errorf("failed to query tax brackets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var filing, minStr string
		var maxStr sql.NullString
		var b domain.Bracket

		if err := rows.Scan(&filing, &minStr, &maxStr, &b.Rate); err != nil {
			return fmt.Errorf("failed to scan tax bracket: %w", err)
		}

		if b.Min, err = decimal.NewFromString(minStr); err != nil {
			return fmt.Errorf("failed to parse min_income: %w", err)
		}
		// NULL max_income marks the unbounded top bracket
		if maxStr.Valid {
			upper, err := decimal.NewFromString(maxStr.String)
			if err != nil {
				return fmt.Errorf("failed to parse max_income: %w", err)
			}
			b.Max = &upper
		}

		fs := domain.FilingStatus(filing)
		table.Brackets[fs] = append(table.Brackets[fs], b)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating tax brackets: %w", err)
	}
	return nil
}

func (r *taxTableRepository) loadPhaseouts(ctx context.Context, table *domain.TaxTable) error {
	query := `
		SELECT filing_status, account_type, range_start, range_end
		FROM phaseout_ranges
		WHERE tax_year = $1
	`

	rows, err := r.db.QueryContext(ctx, query, table.TaxYear)
	if err != nil {
		return fmt.Errorf("failed to query phase-out ranges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var filing, accountType, startStr, endStr string
		if err := rows.Scan(&filing, &accountType, &startStr, &endStr); err != nil {
			return fmt.Errorf("failed to scan phase-out range: %w", err)
		}

		var p domain.PhaseoutRange
		if p.Start, err = decimal.NewFromString(startStr); err != nil {
			return fmt.Errorf("failed to parse range_start: %w", err)
		}
		if p.End, err = decimal.NewFromString(endStr); err != nil {
			return fmt.Errorf("failed to parse range_end: %w", err)
		}

		switch accountType {
		case phaseoutRothIRA:
			table.RothPhaseout[domain.FilingStatus(filing)] = p
		case phaseoutTraditionalIRA:
			table.TraditionalPhaseout[domain.FilingStatus(filing)] = p
		default:
			return fmt.Errorf("unknown phase-out account type %q", accountType)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating phase-out ranges: %w", err)
	}
	return nil
}

// Save replaces the stored table for table.TaxYear inside one transaction
func (r *taxTableRepository) Save(ctx context.Context, table *domain.TaxTable) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Child rows go with the parent via ON DELETE CASCADE
	if _, err = tx.ExecContext(ctx, `DELETE FROM tax_tables WHERE tax_year = $1`, table.TaxYear); err != nil {
		return fmt.Errorf("failed to clear tax table: %w", err)
	}

	l := table.Limits
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tax_tables (
			tax_year, hsa_self_only, hsa_family, hsa_catch_up,
			employer_plan, employer_catch_up, employer_super_catch_up,
			ira, ira_catch_up, retirement_age, expected_return
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		table.TaxYear,
		l.HSASelfOnly.String(), l.HSAFamily.String(), l.HSACatchUp.String(),
		l.EmployerPlan.String(), l.EmployerCatchUp.String(), l.EmployerSuperCatchUp.String(),
		l.IRA.String(), l.IRACatchUp.String(),
		table.RetirementAge,
		table.ExpectedReturn.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert tax table: %w", err)
	}

	for fs, brackets := range table.Brackets {
		for i, b := range brackets {
			var upper sql.NullString
			if b.Max != nil {
				upper = sql.NullString{String: b.Max.String(), Valid: true}
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO tax_brackets (tax_year, filing_status, position, min_income, max_income, rate)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, table.TaxYear, string(fs), i, b.Min.String(), upper, int(b.Rate))
			if err != nil {
				return fmt.Errorf("failed to insert tax bracket: %w", err)
			}
		}
	}

	ranges := []struct {
		accountType string
		byFiling    map[domain.FilingStatus]domain.PhaseoutRange
	}{
		{phaseoutRothIRA, table.RothPhaseout},
		{phaseoutTraditionalIRA, table.TraditionalPhaseout},
	}
	for _, group := range ranges {
		for fs, p := range group.byFiling {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO phaseout_ranges (tax_year, filing_status, account_type, range_start, range_end)
				VALUES ($1, $2, $3, $4, $5)
			`, table.TaxYear, string(fs), group.accountType, p.Start.String(), p.End.String())
			if err != nil {
				return fmt.Errorf("failed to insert phase-out range: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tax table: %w", err)
	}
	return nil
}

// ListYears returns every stored tax year in ascending order
func (r *taxTableRepository) ListYears(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tax_year FROM tax_tables ORDER BY tax_year`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("failed to scan tax year: %w", err)
		}
		years = append(years, y)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax years: %w", err)
	}
	return years, nil
}
