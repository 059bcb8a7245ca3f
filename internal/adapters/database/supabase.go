package database

import "fmt"

// https://supabase.com/docs/guides/database/connecting-to-postgres
//
// The service key doubles as the database password for the managed
// postgres user.
func GetSupabaseConnectionString(host, serviceKey string) string {
	return fmt.Sprintf(
		"user=postgres password=%s database=postgres host=%s sslmode=require",
		serviceKey,
		host,
	)
}
