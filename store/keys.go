package store

import "fmt"

// Key-scheme helpers implementing spec §6's persistence layout exactly:
// every entity's (PK, SK) is derived here so no caller hand-builds a
// key string.

func OrgPK(orgID string) string { return fmt.Sprintf("ORG#%s", orgID) }

func ProfileSK() string { return "PROFILE" }

func HackListingSK(hackID string) string { return fmt.Sprintf("HACK#%s", hackID) }

func HackPK(hackID string) string { return fmt.Sprintf("HACK#%s", hackID) }

func HackMetaSK() string { return "META" }

func SubmissionSK(subID string) string { return fmt.Sprintf("SUB#%s", subID) }

func SubPK(subID string) string { return fmt.Sprintf("SUB#%s", subID) }

func ScoreSK(agent string) string { return fmt.Sprintf("SCORE#%s", agent) }

func SummarySK() string { return "SUMMARY" }

func CostSK(agent string) string { return fmt.Sprintf("COST#%s", agent) }

func CostSummarySK() string { return "COST#SUMMARY" }

func JobSK(jobID string) string { return fmt.Sprintf("JOB#%s", jobID) }

// JobStatusGSI2PK is GSI2's partition key for "jobs in status X ordered
// by created_at" queries.
func JobStatusGSI2PK(status string) string { return fmt.Sprintf("JOB_STATUS#%s", status) }
