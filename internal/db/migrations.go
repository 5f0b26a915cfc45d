package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'vehicle_status') THEN
			CREATE TYPE vehicle_status AS ENUM ('active', 'maintenance', 'retired');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'driver_status') THEN
			CREATE TYPE driver_status AS ENUM ('active', 'inactive', 'suspended');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'job_status') THEN
			CREATE TYPE job_status AS ENUM ('new', 'assigned', 'enroute', 'arrived', 'completed', 'failed', 'cancelled');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'job_priority') THEN
			CREATE TYPE job_priority AS ENUM ('low', 'normal', 'high', 'urgent');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('owner', 'admin', 'dispatcher', 'driver', 'viewer');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS orgs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_orgs_name ON orgs (name);`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL,
		email TEXT NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT,
		role user_role NOT NULL DEFAULT 'owner',
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_org_email ON users (org_id, email);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL,
		name TEXT,
		plate VARCHAR(32),
		status vehicle_status NOT NULL DEFAULT 'active',
		make TEXT,
		vehicle_model TEXT,
		year INT,
		vin TEXT,
		device_id TEXT,
		odometer_km DOUBLE PRECISION,
		last_seen_ts TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicles_org_plate ON vehicles (org_id, plate);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_org_status ON vehicles (org_id, status);`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		licence_number TEXT,
		status driver_status NOT NULL DEFAULT 'active',
		emergency_name TEXT,
		emergency_phone TEXT,
		emergency_relationship TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_drivers_org_name ON drivers (org_id, name);`,
	`CREATE INDEX IF NOT EXISTS idx_drivers_org_status ON drivers (org_id, status);`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL,
		title TEXT NOT NULL,
		pickup JSONB,
		dropoff JSONB,
		assigned_vehicle_id TEXT,
		assigned_driver_id TEXT,
		status job_status NOT NULL DEFAULT 'new',
		eta TEXT,
		notes TEXT,
		description TEXT,
		priority job_priority NOT NULL DEFAULT 'normal',
		scheduled_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		deleted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_org_created ON jobs (org_id, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_org_status_priority ON jobs (org_id, status, priority);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_assigned_vehicle ON jobs (assigned_vehicle_id);`,
	`CREATE TABLE IF NOT EXISTS trips (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL,
		vehicle_id TEXT NOT NULL,
		start_ts TIMESTAMPTZ NOT NULL,
		end_ts TIMESTAMPTZ,
		duration_min DOUBLE PRECISION,
		distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_speed_kph DOUBLE PRECISION,
		max_speed_kph DOUBLE PRECISION,
		idle_minutes DOUBLE PRECISION NOT NULL DEFAULT 0,
		stop_count INT NOT NULL DEFAULT 0,
		fuel_used_l DOUBLE PRECISION,
		co2_kg DOUBLE PRECISION,
		start_lat DOUBLE PRECISION,
		start_lon DOUBLE PRECISION,
		end_lat DOUBLE PRECISION,
		end_lon DOUBLE PRECISION,
		start_address TEXT,
		end_address TEXT,
		polyline TEXT,
		harsh_accel INT NOT NULL DEFAULT 0,
		harsh_brake INT NOT NULL DEFAULT 0,
		over_speed_events INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_org_vehicle_start ON trips (org_id, vehicle_id, start_ts DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_org_start ON trips (org_id, start_ts DESC);`,
	`CREATE TABLE IF NOT EXISTS maintenance_schedules (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL,
		vehicle_id TEXT NOT NULL,
		title TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium',
		every_days INT,
		every_km DOUBLE PRECISION,
		next_due_date TEXT,
		next_due_odom_km DOUBLE PRECISION,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_schedules_org_vehicle ON maintenance_schedules (org_id, vehicle_id);`,
	`CREATE TABLE IF NOT EXISTS maintenance_logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL,
		vehicle_id TEXT NOT NULL,
		schedule_id UUID NOT NULL,
		performed_at TEXT NOT NULL,
		odometer_km DOUBLE PRECISION,
		cost DOUBLE PRECISION,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_logs_org_vehicle_schedule ON maintenance_logs (org_id, vehicle_id, schedule_id);`,
	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL,
		type TEXT,
		owner_type TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT 'cloudinary',
		public_id TEXT NOT NULL,
		secure_url TEXT,
		bytes BIGINT,
		format TEXT,
		expiry TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_org_owner ON documents (org_id, owner_type, owner_id);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_org_type ON documents (org_id, type);`,
	`CREATE TABLE IF NOT EXISTS ingest_ledger (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		provider TEXT NOT NULL,
		event_id TEXT NOT NULL,
		org_id TEXT,
		ts TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_ingest_ledger_provider_event ON ingest_ledger (provider, event_id);`,
	`CREATE TABLE IF NOT EXISTS positions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		ts TIMESTAMPTZ NOT NULL,
		org_id TEXT NOT NULL,
		vehicle_id TEXT NOT NULL,
		driver_id TEXT,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		speed_kph DOUBLE PRECISION,
		heading DOUBLE PRECISION,
		accuracy_m DOUBLE PRECISION,
		ignition BOOLEAN,
		source TEXT NOT NULL DEFAULT 'webhook'
	);`,
	`CREATE INDEX IF NOT EXISTS idx_positions_org_vehicle_ts ON positions (org_id, vehicle_id, ts DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_positions_org_ts ON positions (org_id, ts DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_positions_ts ON positions (ts);`,
}

// Migrate applies the schema. Every statement is idempotent so restarts are
// safe without a migration ledger.
func Migrate(database *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := database.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
