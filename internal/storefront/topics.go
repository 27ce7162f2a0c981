package storefront

const DefaultTopicSubmissions = "storefront.wizard.submissions"

// Partition key = wizard session id, so every event of one session keeps its order.
func PartitionKey(sessionID string) []byte { return []byte(sessionID) }
