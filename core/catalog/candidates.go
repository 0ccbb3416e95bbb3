package catalog

import (
	"cloudprice/internal/errors"
)

// Candidate expansion bounds the number of upstream queries when the
// caller supplies no explicit instance-type filter: the configured
// family and size lists are crossed and joined with the provider's
// delimiter. Managed-database products never go through expansion;
// their catalog comes pre-enumerated from upstream.

// ExpandCandidates crosses families and sizes with the given delimiter.
func ExpandCandidates(families, sizes []string, delimiter string) []string {
	out := make([]string, 0, len(families)*len(sizes))
	for _, family := range families {
		for _, size := range sizes {
			out = append(out, family+delimiter+size)
		}
	}
	return out
}

// AWSInstanceCandidates generates the "family.size" candidate list.
func AWSInstanceCandidates(families, sizes []string) ([]string, error) {
	if len(families) == 0 || len(sizes) == 0 {
		return nil, errors.Config("missing aws instance family/size filters; configure filters.aws_instance_families and filters.aws_instance_sizes")
	}
	return ExpandCandidates(families, sizes, "."), nil
}

// GCPInstanceCandidates generates the "family-size" candidate list.
func GCPInstanceCandidates(families, sizes []string) ([]string, error) {
	if len(families) == 0 || len(sizes) == 0 {
		return nil, errors.Config("missing gcp instance family/size filters; configure filters.gcp_instance_families and filters.gcp_instance_sizes")
	}
	return ExpandCandidates(families, sizes, "-"), nil
}
