/*
Package types defines the data structures shared across the catalog editor.

# Overview

The types package provides shared type definitions for:
  - Catalog rows (projects, areas, content, project/area links)
  - Write payloads (the *Dto types)
  - Authentication sessions and users
  - REST requests, results and the local write history
  - Session state and backend profiles

# Catalog Rows

Rows mirror the PostgREST tables one to one. Optional columns are pointers so
that a NULL column and an empty string stay distinguishable when a record is
edited and written back.

Project:
  - title, desc, order
  - ToDto() returns the writable subset

Area:
  - title, category, desc, order
  - format (FormatType) controls how the title is displayed

Content:
  - markdown text attached to one project

AreaLink:
  - catalog table row relating a project to an area

# Sessions

Session holds the active profile and, once signed in, the AuthSession whose
access token is sent as the bearer token. LocalSession is kept when sign up
succeeds without the server returning a session.
*/
package types
