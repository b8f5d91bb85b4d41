package classifier

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

// BucketRule lists the categories and description keywords that map to one bucket.
type BucketRule struct {
	Bucket     models.CostBucket `mapstructure:"bucket"`
	Categories []string          `mapstructure:"categories"`
	Keywords   []string          `mapstructure:"keywords"`
}

// Rules is the ordered classification table. Earlier buckets win.
type Rules struct {
	Buckets []BucketRule `mapstructure:"buckets"`
}

// Validate checks that every rule names a known bucket.
func (r Rules) Validate() error {
	for i, rule := range r.Buckets {
		if _, err := models.ParseBucket(string(rule.Bucket)); err != nil || rule.Bucket == "" {
			return fmt.Errorf("rule %d: unknown bucket %q", i, rule.Bucket)
		}
	}
	return nil
}

// LoadRules reads a rules table from a YAML, JSON or TOML file.
func LoadRules(path string) (Rules, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules Rules
	if err := v.Unmarshal(&rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file: %w", err)
	}
	for i := range rules.Buckets {
		b, err := models.ParseBucket(string(rules.Buckets[i].Bucket))
		if err != nil {
			return Rules{}, fmt.Errorf("rule %d: %w", i, err)
		}
		rules.Buckets[i].Bucket = b
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// DefaultRules is the table used when no rules file is configured. The inputs
// bucket is intentionally empty: input costs come from stock movements.
func DefaultRules() Rules {
	return Rules{Buckets: []BucketRule{
		{Bucket: models.BucketInputs},
		{
			Bucket:     models.BucketOperational,
			Categories: []string{"Mão de obra", "Manutenção", "Combustível", "Energia", "Serviços", "Salários", "Máquinas"},
			Keywords:   []string{"diesel", "combustivel", "gasolina", "manutencao", "mao de obra", "diarista", "salario", "energia", "conserto", "reparo", "oficina", "peca"},
		},
		{
			Bucket:     models.BucketLogistics,
			Categories: []string{"Frete", "Transporte", "Armazenagem"},
			Keywords:   []string{"frete", "transporte", "carreto", "armazenagem", "pedagio", "secagem"},
		},
		{
			Bucket:     models.BucketAdministrative,
			Categories: []string{"Administrativo", "Impostos", "Contabilidade", "Taxas", "Seguros", "Despesas bancárias"},
			Keywords:   []string{"contador", "contabilidade", "imposto", "seguro", "escritorio", "tarifa bancaria", "cartorio", "advogado"},
		},
		{
			Bucket:     models.BucketOther,
			Categories: []string{"Outros", "Diversos"},
		},
	}}
}
