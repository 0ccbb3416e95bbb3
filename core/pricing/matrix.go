package pricing

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudprice/core/catalog"
	"cloudprice/internal/logging"
)

// MatrixHeader is the fixed column set of a regional price matrix.
// Matched provider instance types are appended as a trailing column on
// data rows.
var MatrixHeader = []string{
	"Instance Type",
	"Cloud Provider",
	"Region",
	"PS Instance Class",
	"vCPU's",
	"Memory (GB)",
	"On-board Storage",
	"Hourly Cost",
	"Monthly Cost",
}

// Row is one priced instance in a regional matrix.
type Row struct {
	InstanceType         string
	Provider             catalog.Provider
	Region               string
	Class                catalog.InstanceClass
	VCPU                 decimal.Decimal
	Memory               decimal.Decimal
	OnboardStorage       int
	Hourly               decimal.Decimal
	Monthly              decimal.Decimal
	ProviderInstanceType string
}

// Matrix is a regional price table ordered ascending by family, vCPU,
// and memory.
type Matrix struct {
	Provider catalog.Provider
	Region   string
	Rows     []Row
}

// BuildMatrix prices every product under the given options and
// assembles the ordered matrix. Products whose price cannot be
// resolved are dropped without failing the build.
func BuildMatrix(provider catalog.Provider, line catalog.ProductLine, products []catalog.Product, opts catalog.Options) *Matrix {
	sorted := make([]catalog.Product, len(products))
	copy(sorted, products)

	// Sort descending, then emit from the tail so the final order is
	// ascending with the original tie order preserved.
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if a.InstanceFamily != b.InstanceFamily {
			return a.InstanceFamily > b.InstanceFamily
		}
		if c := a.VCPU.Cmp(b.VCPU); c != 0 {
			return c > 0
		}
		return a.Memory.IntPart() > b.Memory.IntPart()
	})

	m := &Matrix{Provider: provider, Region: opts.Region}
	for i := len(sorted) - 1; i >= 0; i-- {
		p := &sorted[i]

		hourly, err := HourlyCost(line, p, opts)
		if err != nil {
			logging.Debug("dropping unpriceable instance from matrix",
				zap.String("instance_type", p.InstanceType),
				zap.Error(err))
			continue
		}
		monthly, err := MonthlyCost(line, p, opts)
		if err != nil {
			continue
		}

		m.Rows = append(m.Rows, Row{
			InstanceType:         p.InstanceType,
			Provider:             provider,
			Region:               opts.Region,
			Class:                p.Class,
			VCPU:                 p.VCPU,
			Memory:               p.Memory,
			OnboardStorage:       p.OnboardStorage,
			Hourly:               hourly,
			Monthly:              monthly,
			ProviderInstanceType: p.ProviderInstanceType,
		})
	}
	return m
}

// Table renders the matrix as string cells, header row first. Memory
// is truncated to whole GB and zero on-board storage renders empty.
func (m *Matrix) Table() [][]string {
	out := make([][]string, 0, len(m.Rows)+1)
	out = append(out, append([]string(nil), MatrixHeader...))

	for _, r := range m.Rows {
		storage := ""
		if r.OnboardStorage > 0 {
			storage = strconv.Itoa(r.OnboardStorage)
		}
		out = append(out, []string{
			r.InstanceType,
			string(r.Provider),
			r.Region,
			string(r.Class),
			r.VCPU.String(),
			strconv.FormatInt(r.Memory.IntPart(), 10),
			storage,
			r.Hourly.String(),
			r.Monthly.String(),
			r.ProviderInstanceType,
		})
	}
	return out
}
