// Package core provides the foundational domain types and interfaces shared by
// every layer of reflectloop. It defines:
//
//   - Message (an immutable, role-tagged turn of dialogue)
//   - ConversationState (the append-only history threaded through a loop run)
//   - History (the read-only view of that history handed to role agents)
//   - RoleAgent (the single-method capability implemented by generators and critics)
//   - Sentinel errors classifying generation, critique and configuration failures
//
// The package intentionally keeps model providers, prompt handling and loop
// orchestration out of scope so alternative implementations can be plugged in
// without import cycles.
package core
