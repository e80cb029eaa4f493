package kv

// Bucket and key names for the slashing-protection bolt store. Every
// per-validator sub-bucket lives under pubKeysBucket, keyed by the raw
// 48-byte public key.
var (
	genesisInfoBucket        = []byte("genesis-info-bucket")
	genesisValidatorsRootKey = []byte("genesis-val-root")

	pubKeysBucket = []byte("pub-keys-bucket")

	attestationSigningRootsBucket = []byte("attestation-signing-roots-bucket")
	attestationSourceEpochsBucket = []byte("attestation-source-epochs-bucket")

	newHistoricProposalsBucket = []byte("proposal-history-bucket-interchange")

	lowestSignedProposalsBucket  = []byte("lowest-signed-proposals-bucket")
	highestSignedProposalsBucket = []byte("highest-signed-proposals-bucket")
)
